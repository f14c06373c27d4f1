package lastheard

import (
	"os"
	"sync"
)

// Appender is durable, append-only storage for ledger lines.
type Appender interface {
	Append(line string) error
	Close() error
}

// FileAppender writes one line per record to a file opened in append mode.
type FileAppender struct {
	mu   sync.Mutex
	file *os.File
}

func NewFileAppender(path string, mode os.FileMode) (*FileAppender, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return nil, err
	}
	return &FileAppender{file: f}, nil
}

func (a *FileAppender) Append(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.file.WriteString(line + "\n")
	return err
}

func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

type nopAppender struct{}

func (nopAppender) Append(string) error { return nil }
func (nopAppender) Close() error        { return nil }
