package alias

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
)

// ID accepts both numeric and quoted identifiers; the public ID exports
// mix the two.
type ID uint32

func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", data, err)
	}
	*i = ID(v)
	return nil
}

type Entry struct {
	ID        ID     `json:"id"`
	Callsign  string `json:"callsign"`
	Name      string `json:"name"`
	FirstName string `json:"fname"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// DisplayName prefers the explicit name and falls back to the first name
// used by subscriber exports.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.FirstName
}

type Dictionary map[uint32]Entry

type dictionaryFile struct {
	Results   []Entry `json:"results"`
	Repeaters []Entry `json:"rptrs"`
	Users     []Entry `json:"users"`
}

// LoadDictionary reads an ID export file. A missing file yields an empty
// dictionary so that aliases degrade to bare IDs.
func LoadDictionary(path string) (Dictionary, error) {
	dict := make(Dictionary)
	if path == "" {
		return dict, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dict, nil
		}
		return nil, err
	}

	var file dictionaryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("alias file %s: %w", path, err)
	}
	for _, list := range [][]Entry{file.Results, file.Repeaters, file.Users} {
		for _, e := range list {
			if e.ID == 0 {
				continue
			}
			dict[uint32(e.ID)] = e
		}
	}
	return dict, nil
}

// Merge overlays other onto d.
func (d Dictionary) Merge(other Dictionary) {
	for id, e := range other {
		d[id] = e
	}
}
