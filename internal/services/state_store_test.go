package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmrmonitor/internal/models"
	"dmrmonitor/internal/rcm"
	"dmrmonitor/internal/structures"
	"dmrmonitor/internal/testutil"
)

var (
	t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Minute)
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func testResolver() *testutil.MockResolver {
	return &testutil.MockResolver{
		Peers:       map[uint32]string{312100: "W1AW"},
		Subscribers: map[uint32]string{3114393: "N0CALL, Jane"},
		Talkgroups:  map[uint32]string{3100: "USA"},
	}
}

// seededStore holds system NET1 with peers 1 (master) and 2, 3.
func seededStore(t *testing.T) (*StateStore, *ChangeNotifier) {
	t.Helper()
	n := NewChangeNotifier()
	store := NewStateStore(testResolver(), n, fixedClock(t0))
	syncer := NewSynchronizer(store, testResolver(), &testutil.MockLogger{}, fixedClock(t0))
	_, err := syncer.SyncTopology(topology("NET1", 1, 2, 3))
	require.NoError(t, err)
	return store, n
}

func decoder() *rcm.Decoder {
	return rcm.NewDecoder(&structures.Config{Link: structures.LinkConfig{
		Rcm: structures.RcmConfig{StatusType: 0x61, RepeatType: 0x62, NackType: 0x63},
	}})
}

func statusPacket(peer byte, ts, status byte) []byte {
	p := make([]byte, 23)
	p[0] = 0x61
	p[4] = peer
	copy(p[5:9], []byte{0x00, 0x04, 0xC3, 0x24})
	p[13] = ts
	p[15] = status
	copy(p[16:19], []byte{0x2F, 0x85, 0x99})
	copy(p[19:22], []byte{0x00, 0x0C, 0x1C})
	p[22] = 0x4F
	return p
}

func apply(t *testing.T, store *StateStore, packet []byte, at time.Time) {
	t.Helper()
	delta, err := decoder().Decode(packet, at)
	require.NoError(t, err)
	require.NoError(t, store.ApplyDelta("NET1", delta))
}

func TestStateStore_ActiveCallTouchesOnlyAddressedSlot(t *testing.T) {
	store, _ := seededStore(t)
	before := store.Snapshot()

	apply(t, store, statusPacket(2, 1, 0x01), t1)

	after := store.Snapshot()
	slot := after.Systems["NET1"].Peers[2].Slots[1]
	assert.Equal(t, models.StatusActive, slot.Status)
	assert.Equal(t, models.ColorActive, slot.Color)
	assert.Equal(t, "Group Voice", slot.CallType)
	assert.Equal(t, "N0CALL, Jane", slot.SrcSub)
	assert.Equal(t, "W1AW", slot.SrcPeer)
	assert.Equal(t, uint32(3100), slot.Dest)
	assert.Equal(t, t1, slot.Last)

	for id, peer := range after.Systems["NET1"].Peers {
		for i := range peer.Slots {
			if id == 2 && i == 1 {
				continue
			}
			assert.Equal(t, before.Systems["NET1"].Peers[id].Slots[i], peer.Slots[i])
		}
	}
	assert.Greater(t, after.Version, before.Version)
}

func TestStateStore_TerminalStatusClears(t *testing.T) {
	for _, code := range []byte{0x02, 0x0A} {
		store, _ := seededStore(t)
		apply(t, store, statusPacket(2, 0, 0x01), t0)
		apply(t, store, statusPacket(2, 0, code), t1)

		slot := store.Snapshot().Systems["NET1"].Peers[2].Slots[0]
		assert.Equal(t, models.StatusIdle, slot.Status)
		assert.Equal(t, models.ColorIdle, slot.Color)
		assert.Empty(t, slot.CallType)
		assert.Empty(t, slot.SrcSub)
		assert.Empty(t, slot.SrcPeer)
		assert.Zero(t, slot.Dest)
		assert.Equal(t, t1, slot.Last)
	}
}

func TestStateStore_RepeatIsIdempotent(t *testing.T) {
	store, _ := seededStore(t)
	packet := []byte{0x62, 0, 0, 0, 3, 0x01, 0x03}

	apply(t, store, packet, t1)
	once := store.Snapshot().Systems["NET1"].Peers[3].Slots
	apply(t, store, packet, t1)
	twice := store.Snapshot().Systems["NET1"].Peers[3].Slots

	assert.Equal(t, once, twice)
	assert.Equal(t, models.StatusRepeating, twice[0].Status)
	assert.Equal(t, models.StatusDisabled, twice[1].Status)
	assert.Equal(t, models.ColorAlert, twice[1].Color)
}

func TestStateStore_RepeatKeepsCallDetail(t *testing.T) {
	store, _ := seededStore(t)
	apply(t, store, statusPacket(2, 0, 0x01), t0)
	apply(t, store, []byte{0x62, 0, 0, 0, 2, 0x01, 0x04}, t1)

	slot := store.Snapshot().Systems["NET1"].Peers[2].Slots[0]
	assert.Equal(t, models.StatusRepeating, slot.Status)
	assert.Equal(t, "Group Voice", slot.CallType)
	assert.Equal(t, uint32(3100), slot.Dest)
}

func TestStateStore_NackWarningThenClear(t *testing.T) {
	store, _ := seededStore(t)

	apply(t, store, []byte{0x63, 0, 0, 0, 1, 0x05}, t0)
	for _, slot := range store.Snapshot().Systems["NET1"].Peers[1].Slots {
		assert.Equal(t, models.StatusBsidOn, slot.Status)
		assert.Equal(t, models.ColorWarning, slot.Color)
	}

	apply(t, store, []byte{0x63, 0, 0, 0, 1, 0x06}, t1)
	for _, slot := range store.Snapshot().Systems["NET1"].Peers[1].Slots {
		assert.Equal(t, models.StatusIdle, slot.Status)
		assert.Equal(t, models.ColorIdle, slot.Color)
		assert.Equal(t, t1, slot.Last)
	}
}

func TestStateStore_NackOtherCodeOnlyTouches(t *testing.T) {
	store, _ := seededStore(t)
	apply(t, store, []byte{0x63, 0, 0, 0, 1, 0x05}, t0)
	apply(t, store, []byte{0x63, 0, 0, 0, 1, 0x07}, t1)

	for _, slot := range store.Snapshot().Systems["NET1"].Peers[1].Slots {
		assert.Equal(t, models.StatusBsidOn, slot.Status)
		assert.Equal(t, t1, slot.Last)
	}
}

func TestStateStore_UnknownPeerAndSystem(t *testing.T) {
	store, n := seededStore(t)
	ch := n.Subscribe()
	version := store.Version()

	delta, err := decoder().Decode(statusPacket(99, 0, 0x01), t1)
	require.NoError(t, err)
	assert.ErrorIs(t, store.ApplyDelta("NET1", delta), ErrUnknownPeer)
	assert.ErrorIs(t, store.ApplyDelta("NOPE", delta), ErrUnknownSystem)

	assert.Equal(t, version, store.Version())
	assert.Len(t, ch, 0)
}

func TestStateStore_NotifiesOnChange(t *testing.T) {
	store, n := seededStore(t)
	ch := n.Subscribe()

	apply(t, store, statusPacket(2, 0, 0x01), t1)
	assert.Len(t, ch, 1)

	<-ch
	store.Touch()
	assert.Len(t, ch, 1)
}

func TestStateStore_SnapshotIsIsolated(t *testing.T) {
	store, _ := seededStore(t)
	view := store.Snapshot()
	view.Systems["NET1"].Peers[2].Slots[0].SetStatus(models.StatusActive)
	delete(view.Systems["NET1"].Peers, 3)

	fresh := store.Snapshot()
	assert.Equal(t, models.StatusIdle, fresh.Systems["NET1"].Peers[2].Slots[0].Status)
	assert.Contains(t, fresh.Systems["NET1"].Peers, uint32(3))
}

func TestStateStore_ConcurrentApplyAndSnapshot(t *testing.T) {
	store, _ := seededStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				apply(t, store, statusPacket(2, byte(j%2), 0x01), t1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := store.Snapshot()
				assert.Len(t, v.Systems["NET1"].Peers, 3)
			}
		}()
	}
	wg.Wait()
}
