package services

import "sync"

// ChangeNotifier fans a "state changed" signal out to listeners. Signals are
// coalesced: a listener that has not consumed the previous one misses nothing
// but sees a single pending signal.
type ChangeNotifier struct {
	subscribers map[chan struct{}]struct{}
	mu          sync.RWMutex
}

func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

func (cn *ChangeNotifier) Subscribe() chan struct{} {
	cn.mu.Lock()
	defer cn.mu.Unlock()
	ch := make(chan struct{}, 1)
	cn.subscribers[ch] = struct{}{}
	return ch
}

func (cn *ChangeNotifier) Unsubscribe(ch chan struct{}) {
	cn.mu.Lock()
	defer cn.mu.Unlock()
	if _, ok := cn.subscribers[ch]; !ok {
		return
	}
	delete(cn.subscribers, ch)
	close(ch)
}

func (cn *ChangeNotifier) Notify() {
	cn.mu.RLock()
	defer cn.mu.RUnlock()
	for ch := range cn.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
