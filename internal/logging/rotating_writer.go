package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// RotatingFileWriter is a file writer with size-based rotation. When the
// active file would exceed maxSize it is renamed to <path>.1, shifting
// older backups to <path>.2 and beyond, keeping at most maxBackups of them.
type RotatingFileWriter struct {
	mu         sync.Mutex
	file       *os.File
	filePath   string
	maxSize    int64
	maxBackups int
	size       int64
}

// NewRotatingFileWriter creates a writer appending to filePath.
func NewRotatingFileWriter(filePath string, maxSize int64, maxBackups int) (*RotatingFileWriter, error) {
	w := &RotatingFileWriter{
		filePath:   filePath,
		maxSize:    maxSize,
		maxBackups: maxBackups,
	}

	if err := w.openFile(); err != nil {
		return nil, err
	}

	info, err := w.file.Stat()
	if err != nil {
		_ = w.file.Close()
		return nil, err
	}
	w.size = info.Size()

	return w, nil
}

// Write implements io.Writer.
func (w *RotatingFileWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the active file.
func (w *RotatingFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *RotatingFileWriter) openFile() error {
	file, err := os.OpenFile(w.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	w.file = file
	return nil
}

func (w *RotatingFileWriter) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return err
		}
	}

	// Shift backups up, dropping the oldest
	_ = os.Remove(w.backupName(w.maxBackups))
	for i := w.maxBackups - 1; i >= 1; i-- {
		oldPath := w.backupName(i)
		if _, err := os.Stat(oldPath); err == nil {
			if err := os.Rename(oldPath, w.backupName(i+1)); err != nil {
				return err
			}
		}
	}

	// The active file may not exist yet on the very first rotation
	_ = os.Rename(w.filePath, w.backupName(1))

	if err := w.openFile(); err != nil {
		return err
	}
	w.size = 0
	return nil
}

func (w *RotatingFileWriter) backupName(index int) string {
	return fmt.Sprintf("%s.%d", w.filePath, index)
}

// Ensure RotatingFileWriter implements io.WriteCloser
var _ io.WriteCloser = (*RotatingFileWriter)(nil)
