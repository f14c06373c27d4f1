package models

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLog_KeepsNewest(t *testing.T) {
	l := NewEventLog(3)
	for i := 0; i < 5; i++ {
		l.Append(fmt.Sprintf("line %d", i))
	}
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, l.Lines())
	assert.Equal(t, 3, l.Len())
}

func TestEventLog_LinesIsCopy(t *testing.T) {
	l := NewEventLog(2)
	l.Append("a")
	lines := l.Lines()
	lines[0] = "z"
	assert.Equal(t, []string{"a"}, l.Lines())
}

func TestEventLog_RestoreTrims(t *testing.T) {
	l := NewEventLog(2)
	l.Restore([]string{"a", "b", "c"})
	assert.Equal(t, []string{"b", "c"}, l.Lines())
}

func TestEventLog_DefaultSize(t *testing.T) {
	l := NewEventLog(0)
	for i := 0; i < 150; i++ {
		l.Append("x")
	}
	assert.Equal(t, 100, l.Len())
}

func TestEventLog_ConcurrentAppend(t *testing.T) {
	l := NewEventLog(50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Append(fmt.Sprintf("%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())
}
