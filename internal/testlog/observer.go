// Package testlog records test lifecycle events for external tooling.
package testlog

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// EnvPath names the file that FromEnv appends to
const EnvPath = "TEST_EXECUTION_LOG"

// Observer receives test lifecycle events
type Observer interface {
	TestStarted(name string)
	TestFinished(name string, failed bool)
}

type nop struct{}

func (nop) TestStarted(string)        {}
func (nop) TestFinished(string, bool) {}

// Nop returns an observer that discards events
func Nop() Observer {
	return nop{}
}

// FileObserver appends one JSON line per event to a file.
type FileObserver struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileObserver creates an observer writing to path. The file is opened
// for each event and closed right after.
func NewFileObserver(path string) *FileObserver {
	return &FileObserver{path: path, now: time.Now}
}

func (o *FileObserver) TestStarted(name string) {
	o.write(func(l zerolog.Logger) {
		l.Info().Str("test", name).Time("at", o.now()).Msg("starting test")
	})
}

func (o *FileObserver) TestFinished(name string, failed bool) {
	status := "PASSED"
	if failed {
		status = "FAILED"
	}
	o.write(func(l zerolog.Logger) {
		l.Info().Str("test", name).Str("status", status).Time("at", o.now()).Msg("finished test")
	})
}

func (o *FileObserver) write(emit func(zerolog.Logger)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// lifecycle logging must never fail a test
		l := zerolog.New(os.Stderr)
		l.Error().Err(err).Str("path", o.path).Msg("failed to open test log")
		return
	}
	defer f.Close()

	emit(zerolog.New(f))
}

// FromEnv returns a FileObserver for $TEST_EXECUTION_LOG, or Nop when unset
func FromEnv() Observer {
	if path := os.Getenv(EnvPath); path != "" {
		return NewFileObserver(path)
	}
	return Nop()
}

// Track reports t's start now and its outcome when t finishes
func Track(t testing.TB, o Observer) {
	t.Helper()
	o.TestStarted(t.Name())
	t.Cleanup(func() {
		o.TestFinished(t.Name(), t.Failed())
	})
}
