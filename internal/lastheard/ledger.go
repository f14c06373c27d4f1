package lastheard

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dmrmonitor/internal/models"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

const defaultFileName = "lastheard.log"

type Notifier interface {
	Notify()
}

type LedgerInterface interface {
	Enabled() bool
	Record(rec models.CallRecord) error
	View() []models.CallRecord
	Recent() []models.CallRecord
	Restore(recs []models.CallRecord)
	Close() error
}

// Ledger keeps completed calls. Every record goes to the appender; only the
// newest scanDepth records stay in memory, and the viewer-facing window is
// built from those.
type Ledger struct {
	enabled  bool
	appender Appender
	notifier Notifier
	logger   providers.Logger
	size     int
	depth    int

	mu     sync.RWMutex
	recent []models.CallRecord
}

func NewLedger(appender Appender, notifier Notifier, logger providers.Logger, size, depth int) *Ledger {
	if depth < size {
		depth = size
	}
	return &Ledger{
		enabled:  true,
		appender: appender,
		notifier: notifier,
		logger:   logger,
		size:     size,
		depth:    depth,
		recent:   make([]models.CallRecord, 0, depth),
	}
}

func NewLedgerProvider(conf *structures.Config, notifier Notifier, logger providers.Logger) (LedgerInterface, error) {
	lh := conf.LastHeard
	if !lh.Enabled {
		l := NewLedger(nopAppender{}, notifier, logger, lh.Size, lh.ScanDepth)
		l.enabled = false
		return l, nil
	}

	path := lh.File
	if path == "" {
		path = filepath.Join(conf.Logger.Dir, defaultFileName)
	}
	appender, err := NewFileAppender(path, os.FileMode(conf.Logger.Mode))
	if err != nil {
		return nil, fmt.Errorf("open last-heard log: %w", err)
	}
	logger.Infof(providers.TypeLastHeard, "Last-heard log: %s", path)
	return NewLedger(appender, notifier, logger, lh.Size, lh.ScanDepth), nil
}

func (l *Ledger) Enabled() bool {
	return l.enabled
}

// Record appends rec to durable storage and to the in-memory window. A
// storage failure is reported but the record still reaches viewers.
func (l *Ledger) Record(rec models.CallRecord) error {
	err := l.appender.Append(rec.Line())
	if err != nil {
		l.logger.Errorf(providers.TypeLastHeard, "Failed to append record for %d: %s", rec.SrcSub, err)
	}

	l.mu.Lock()
	l.push(rec)
	l.mu.Unlock()

	l.notifier.Notify()
	return err
}

func (l *Ledger) push(rec models.CallRecord) {
	if len(l.recent) >= l.depth {
		copy(l.recent, l.recent[1:])
		l.recent[len(l.recent)-1] = rec
		return
	}
	l.recent = append(l.recent, rec)
}

// View returns at most size records, newest first, one per source
// subscriber.
func (l *Ledger) View() []models.CallRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[uint32]struct{}, l.size)
	out := make([]models.CallRecord, 0, l.size)
	for i := len(l.recent) - 1; i >= 0 && len(out) < l.size; i-- {
		rec := l.recent[i]
		if _, ok := seen[rec.SrcSub]; ok {
			continue
		}
		seen[rec.SrcSub] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// Recent returns the in-memory records oldest first.
func (l *Ledger) Recent() []models.CallRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.CallRecord(nil), l.recent...)
}

// Restore seeds the in-memory window, typically from persisted state. It
// does not touch durable storage.
func (l *Ledger) Restore(recs []models.CallRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(recs) > l.depth {
		recs = recs[len(recs)-l.depth:]
	}
	l.recent = append(l.recent[:0], recs...)
}

func (l *Ledger) Close() error {
	return l.appender.Close()
}
