package persistence

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"dmrmonitor/internal/lastheard"
	"dmrmonitor/internal/models"
	"dmrmonitor/internal/persistence/interfaces"
	"dmrmonitor/internal/providers"
)

type FileManager struct {
	events     *models.EventLog
	ledger     lastheard.LedgerInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	clock      providers.Clock
}

func NewFileManager(
	compressor interfaces.CompressorInterface,
	events *models.EventLog,
	ledger lastheard.LedgerInterface,
	logger providers.Logger,
	clock providers.Clock,
) *FileManager {
	return &FileManager{
		compressor: compressor,
		events:     events,
		ledger:     ledger,
		logger:     logger,
		clock:      clock,
	}
}

func (f *FileManager) snapshot() models.MonitorState {
	return models.MonitorState{
		Version:   models.PersistedStateVersion,
		SavedAt:   f.clock().UTC(),
		Events:    f.events.Lines(),
		LastHeard: f.ledger.Recent(),
	}
}

// SaveToFile writes the state next to fileName and renames it into place, so
// a crash mid-write never leaves a truncated file behind.
func (f *FileManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(f.snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a previously saved state. A missing file is a fresh
// start, not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var state models.MonitorState
	if err := json.Unmarshal(decompressedData, &state); err != nil {
		return err
	}
	if state.Version != models.PersistedStateVersion {
		return fmt.Errorf("unsupported state version %d", state.Version)
	}

	f.events.Restore(state.Events)
	f.ledger.Restore(state.LastHeard)
	f.logger.Infof(providers.TypeApp, "Restored %d log lines and %d calls saved at %s",
		len(state.Events), len(state.LastHeard), state.SavedAt.Format(models.RecordTimeLayout))
	return nil
}
