package link

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmrmonitor/internal/models"
	"dmrmonitor/internal/structures"
)

func codecConfig(name string) *structures.Config {
	return &structures.Config{Link: structures.LinkConfig{PayloadCodec: name}}
}

func TestNewPayloadCodec(t *testing.T) {
	c, err := NewPayloadCodec(codecConfig("json"))
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	c, err = NewPayloadCodec(codecConfig("cbor"))
	require.NoError(t, err)
	assert.Equal(t, "cbor", c.Name())

	_, err = NewPayloadCodec(codecConfig("pickle"))
	assert.Error(t, err)
}

func TestCborCodec_DecodesBridgeSnapshot(t *testing.T) {
	snap := models.BridgeSnapshot{"WORLD": {{System: "NET1", TS: 2, TGID: 91, Active: true, TimeoutType: "ON", Timer: 1.5e9, On: []uint32{91}}}}
	data, err := cbor.Marshal(snap)
	require.NoError(t, err)

	c, err := NewPayloadCodec(codecConfig("cbor"))
	require.NoError(t, err)

	var got models.BridgeSnapshot
	require.NoError(t, c.Unmarshal(data, &got))
	assert.Equal(t, snap, got)
}

func TestJsonCodec_DecodesBridgeSnapshot(t *testing.T) {
	c, err := NewPayloadCodec(codecConfig("json"))
	require.NoError(t, err)

	var got models.BridgeSnapshot
	require.NoError(t, c.Unmarshal([]byte(`{"WORLD":[{"SYSTEM":"NET1","TS":1,"TGID":3100,"ACTIVE":false,"TO_TYPE":"OFF","TIMER":0,"ON":[],"OFF":[9]}]}`), &got))
	require.Len(t, got["WORLD"], 1)
	assert.Equal(t, "NET1", got["WORLD"][0].System)
	assert.Equal(t, []uint32{9}, got["WORLD"][0].Off)
}
