package logger

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	telerrors "github.com/socialchef/telekit/internal/errors"
)

// DailyLayout is the date suffix appended to rotated log file names.
const DailyLayout = "2006-01-02"

// keepForever stands in for "no pruning": rotatelogs treats a non-positive
// max age as its 7 day default.
const keepForever = 100 * 365 * 24 * time.Hour

// RotatingFile is a daily-rotated log file. Writes after Close fail with
// os.ErrClosed instead of reopening the file.
type RotatingFile struct {
	mu     sync.Mutex
	rl     *rotatelogs.RotateLogs
	closed bool
}

// NewRotatingFile opens a writer that starts a new file under dir every UTC
// day, named prefix followed by the date. Files older than maxAge are
// removed on rotation; a non-positive maxAge keeps them forever.
func NewRotatingFile(dir, prefix string, maxAge time.Duration) (*RotatingFile, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, telerrors.NewSinkError("failed to create log directory", "LOG_DIR", err)
	}

	if maxAge <= 0 {
		maxAge = keepForever
	}

	rl, err := rotatelogs.New(
		filepath.Join(dir, prefix+"%Y-%m-%d"),
		rotatelogs.WithClock(rotatelogs.UTC),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(maxAge),
	)
	if err != nil {
		return nil, telerrors.NewSinkError("failed to open rotating log file", "LOG_FILE", err)
	}
	return &RotatingFile{rl: rl}, nil
}

func (f *RotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.rl.Write(p)
}

// Close closes the current file. It is safe to call more than once.
func (f *RotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.rl.Close()
}

// CurrentFileName is the file being written, or "" before the first write.
func (f *RotatingFile) CurrentFileName() string {
	return f.rl.CurrentFileName()
}

// DailyFileName is the name the rotating writer uses for the file covering t.
func DailyFileName(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, prefix+t.UTC().Format(DailyLayout))
}
