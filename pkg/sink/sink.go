// Package sink defines where the compiler's finished artifacts and log
// records go. The compiler only ever talks to the Artifact and Logger
// interfaces; the driver decides what sits behind them.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"toyc/pkg/vfs"
)

// Level classifies a log record.
type Level int

const (
	Debug Level = iota
	Wait
	Info
	Warn
	Error
	Done
	Raw // printed without prefix or timestamp
)

var levelNames = [...]string{
	Debug: "DEBUG",
	Wait:  "WAIT",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Done:  "DONE",
	Raw:   "RAW",
}

func (l Level) String() string {
	if int(l) >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Logger receives discrete log records. Implementations must not fail and
// must be safe for concurrent use.
type Logger interface {
	Record(level Level, msg string)
}

// Logf formats and records a message on log, which may be nil.
func Logf(log Logger, level Level, format string, args ...any) {
	if log == nil {
		return
	}
	log.Record(level, fmt.Sprintf(format, args...))
}

// Discard drops every record.
var Discard Logger = discard{}

type discard struct{}

func (discard) Record(Level, string) {}

// Entry is one record captured by a Recorder.
type Entry struct {
	Level Level
	Msg   string
}

// Recorder keeps every record in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Record(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg})
}

// Entries returns a copy of the records seen so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Artifact accepts a finished text artifact and persists or forwards it.
type Artifact interface {
	Accept(text string) error
}

// Writer forwards artifacts to an io.Writer, such as os.Stdout.
type Writer struct {
	W io.Writer
}

func (w Writer) Accept(text string) error {
	_, err := io.WriteString(w.W, text)
	return err
}

// File writes each artifact to Path, replacing previous content. Missing
// parent directories are created.
type File struct {
	Path string
}

func (f File) Accept(text string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(text), 0o644)
}

// Disk stages each artifact on a VirtualDisk under Name.
type Disk struct {
	Disk *vfs.VirtualDisk
	Name string
}

func (d Disk) Accept(text string) error {
	if err := d.Disk.Write(d.Name, []byte(text)); err != nil {
		return fmt.Errorf("staging %s: %w", d.Name, err)
	}
	return nil
}
