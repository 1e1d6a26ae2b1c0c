package sink

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ANSI badges printed before each console line.
var consolePrefixes = map[Level]string{
	Error: "\x1b[41m\x1b[30m x \x1b[0m\x1b[31m",
	Warn:  "\x1b[43m\x1b[30m ! \x1b[0m\x1b[33m",
	Debug: "\x1b[45m\x1b[30m d \x1b[0m\x1b[35m",
	Wait:  "\x1b[46m\x1b[30m ⧖ \x1b[0m\x1b[36m",
	Info:  "\x1b[44m\x1b[30m i \x1b[0m\x1b[36m",
	Done:  "\x1b[42m\x1b[30m ✓ \x1b[0m\x1b[32m",
}

const consoleReset = "\x1b[0m"

// Console writes human-readable log lines:
//
//	[INFO]  [14:03:07] - C code saved to out/output.c
//
// Debug records are dropped unless ShowDebug is set.
type Console struct {
	W         io.Writer
	Color     bool
	ShowDebug bool
	Now       func() time.Time // defaults to time.Now

	mu sync.Mutex
}

// NewConsole returns a colourless Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) Record(level Level, msg string) {
	if level == Debug && !c.ShowDebug {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if level == Raw {
		fmt.Fprintln(c.W, msg)
		return
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	tag := fmt.Sprintf("%-7s", "["+level.String()+"]")
	line := fmt.Sprintf("%s [%s] - %s", tag, now().Format("15:04:05"), msg)
	if c.Color {
		line = consolePrefixes[level] + " " + line + consoleReset
	}
	fmt.Fprintln(c.W, line)
}

// Slog forwards records to a structured logger. Wait and Done map to
// Info, Raw records are logged at Info with raw=true.
type Slog struct {
	Logger *slog.Logger
}

func (s Slog) Record(level Level, msg string) {
	switch level {
	case Debug:
		s.Logger.Debug(msg)
	case Warn:
		s.Logger.Warn(msg)
	case Error:
		s.Logger.Error(msg)
	case Raw:
		s.Logger.Info(msg, "raw", true)
	default:
		s.Logger.Info(msg, "stage", level.String())
	}
}
