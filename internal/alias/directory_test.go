package alias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmrmonitor/internal/structures"
	"dmrmonitor/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadDictionary_MixedIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "subs.json", `{"results":[
		{"id":3114393,"callsign":"N0CALL","fname":"Jane","city":"Denver","state":"Colorado"},
		{"id":"3100001","callsign":"K1ABC","name":"Bob"}
	]}`)

	dict, err := LoadDictionary(filepath.Join(dir, "subs.json"))
	require.NoError(t, err)
	require.Len(t, dict, 2)
	assert.Equal(t, "Jane", dict[3114393].DisplayName())
	assert.Equal(t, "Bob", dict[3100001].DisplayName())
}

func TestLoadDictionary_MissingFileIsEmpty(t *testing.T) {
	dict, err := LoadDictionary(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, dict)

	dict, err = LoadDictionary("")
	require.NoError(t, err)
	assert.Empty(t, dict)
}

func TestLoadDictionary_BadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"results":[{"id":"abc"}]}`)
	_, err := LoadDictionary(filepath.Join(dir, "bad.json"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	dict := Dictionary{1: {Callsign: "W1AW", City: "Newington"}}
	assert.Equal(t, []string{"W1AW", "Newington"}, Resolve(1, dict, FieldCallsign, FieldCity, FieldState))
	assert.Nil(t, Resolve(2, dict, FieldCallsign))
}

func TestDirectory_Formats(t *testing.T) {
	d := NewDirectory(
		Dictionary{312000: {Callsign: "W1AW", City: "Newington", State: "CT"}},
		Dictionary{3114393: {Callsign: "N0CALL", FirstName: "Jane"}},
		Dictionary{3100: {Name: "USA"}},
	)

	assert.Equal(t, "W1AW, Newington, CT", d.PeerFull(312000))
	assert.Equal(t, "W1AW", d.PeerCall(312000))
	assert.Equal(t, "N0CALL, Jane", d.SubscriberShort(3114393))
	assert.Equal(t, "USA", d.Talkgroup(3100))

	assert.Equal(t, "42", d.PeerFull(42))
	assert.Equal(t, "42", d.PeerCall(42))
	assert.Equal(t, "42", d.SubscriberShort(42))
	assert.Equal(t, "42", d.Talkgroup(42))
}

func TestNewDirectoryProvider_LocalOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "peers.json", `{"rptrs":[{"id":"312000","callsign":"OLD"},{"id":"312001","callsign":"KEEP"}]}`)
	writeFile(t, dir, "local_peers.json", `{"results":[{"id":312000,"callsign":"NEW"}]}`)
	writeFile(t, dir, "tg.json", `{"results":[{"id":91,"name":"Worldwide"}]}`)

	conf := &structures.Config{Aliases: structures.AliasConfig{
		Path:          dir,
		PeerFile:      "peers.json",
		LocalPeerFile: "local_peers.json",
		TgidFile:      "tg.json",
	}}
	logger := &testutil.MockLogger{}

	r, err := NewDirectoryProvider(conf, logger)
	require.NoError(t, err)
	assert.Equal(t, "NEW", r.PeerCall(312000))
	assert.Equal(t, "KEEP", r.PeerCall(312001))
	assert.Equal(t, "Worldwide", r.Talkgroup(91))
	assert.Equal(t, "3114393", r.SubscriberShort(3114393))
	assert.NotEmpty(t, logger.Logs)
}
