package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmrmonitor/internal/structures"
	"dmrmonitor/internal/testutil"
)

func newTestHub(timeout time.Duration) (*Hub, *testutil.MockMetrics) {
	conf := &structures.Config{Website: structures.WebsiteConfig{ClientTimeout: timeout}}
	metrics := &testutil.MockMetrics{}
	return NewHub(conf, &testutil.MockLogger{}, metrics), metrics
}

func initial(msgs ...string) func() [][]byte {
	return func() [][]byte {
		out := make([][]byte, len(msgs))
		for i, m := range msgs {
			out[i] = []byte(m)
		}
		return out
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, []byte("dhello"), Message(TagTopology, "hello"))
	assert.Equal(t, []byte("q"), Message(TagNotice, ""))
}

func TestHub_JoinSendsInitialState(t *testing.T) {
	h, metrics := newTestHub(0)
	sub := &testutil.MockSubscriber{Name: "a"}

	require.NoError(t, h.Join(sub, initial("dtable", "btable", "lline")))
	assert.Equal(t, []string{"dtable", "btable", "lline"}, sub.Received())
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 1, metrics.Subscribers)
}

func TestHub_JoinFailureDeregisters(t *testing.T) {
	h, _ := newTestHub(0)
	sub := &testutil.MockSubscriber{Name: "a", FailSend: true}

	err := h.Join(sub, initial("dtable"))
	assert.Error(t, err)
	assert.Equal(t, 0, h.Len())
}

func TestHub_BroadcastIsolatesFailures(t *testing.T) {
	h, metrics := newTestHub(0)
	good1 := &testutil.MockSubscriber{Name: "good1"}
	bad := &testutil.MockSubscriber{Name: "bad"}
	good2 := &testutil.MockSubscriber{Name: "good2"}
	for _, s := range []*testutil.MockSubscriber{good1, bad, good2} {
		require.NoError(t, h.Join(s, initial()))
	}
	bad.FailSend = true

	h.Broadcast([]byte("dupdate"))

	assert.Equal(t, []string{"dupdate"}, good1.Received())
	assert.Equal(t, []string{"dupdate"}, good2.Received())
	assert.Equal(t, 2, h.Len())
	assert.Eventually(t, bad.IsClosed, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, metrics.DroppedCount("subscriber_send"))
}

func TestHub_Leave(t *testing.T) {
	h, _ := newTestHub(0)
	sub := &testutil.MockSubscriber{Name: "a"}
	require.NoError(t, h.Join(sub, initial()))

	h.Leave("a")
	h.Leave("a")
	assert.Equal(t, 0, h.Len())

	h.Broadcast([]byte("dx"))
	assert.Empty(t, sub.Received())
}

func TestHub_SweepEvictsIdle(t *testing.T) {
	h, _ := newTestHub(50 * time.Millisecond)
	idle := &testutil.MockSubscriber{Name: "idle"}
	active := &testutil.MockSubscriber{Name: "active"}
	require.NoError(t, h.Join(idle, initial()))
	require.NoError(t, h.Join(active, initial()))

	deadline := time.Now().Add(120 * time.Millisecond)
	for time.Now().Before(deadline) {
		h.Touch("active")
		time.Sleep(10 * time.Millisecond)
	}
	h.Sweep()

	assert.Equal(t, 1, h.Len())
	assert.Eventually(t, idle.IsClosed, time.Second, 10*time.Millisecond)
	assert.False(t, active.IsClosed())
}

func TestHub_SweepDisabledWithoutTimeout(t *testing.T) {
	h, _ := newTestHub(0)
	sub := &testutil.MockSubscriber{Name: "a"}
	require.NoError(t, h.Join(sub, initial()))

	time.Sleep(20 * time.Millisecond)
	h.Sweep()
	assert.Equal(t, 1, h.Len())
	assert.False(t, sub.IsClosed())
}

func TestHub_Close(t *testing.T) {
	h, _ := newTestHub(0)
	sub := &testutil.MockSubscriber{Name: "a"}
	require.NoError(t, h.Join(sub, initial()))

	h.Close()
	assert.Equal(t, 0, h.Len())
	assert.Eventually(t, sub.IsClosed, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithOrdersAgainstJoin(t *testing.T) {
	h, _ := newTestHub(0)
	var recorded []string
	var mu sync.Mutex
	replay := func() [][]byte {
		mu.Lock()
		defer mu.Unlock()
		out := make([][]byte, 0, len(recorded))
		for _, r := range recorded {
			out = append(out, []byte(r))
		}
		return out
	}

	late := &testutil.MockSubscriber{Name: "late"}
	joined := make(chan error, 1)
	h.BroadcastWith([]byte("lline"), func() {
		go func() { joined <- h.Join(late, replay) }()
		time.Sleep(30 * time.Millisecond)
		assert.Empty(t, late.Received())
		mu.Lock()
		recorded = append(recorded, "lline")
		mu.Unlock()
	})
	require.NoError(t, <-joined)

	assert.Equal(t, []string{"lline"}, late.Received())
}
