package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"toyc/pkg/vfs"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 14, 3, 7, 0, time.UTC)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Now = fixedClock

	c.Record(Info, "compiling demo")
	c.Record(Debug, "hidden")
	c.Record(Done, "C code saved to out/output.c")
	c.Record(Error, "boom")
	c.Record(Raw, "plain text")

	want := "[INFO]  [14:03:07] - compiling demo\n" +
		"[DONE]  [14:03:07] - C code saved to out/output.c\n" +
		"[ERROR] [14:03:07] - boom\n" +
		"plain text\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestConsoleDebugAndColor(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{W: &buf, Color: true, ShowDebug: true, Now: fixedClock}
	c.Record(Debug, "lexed 3 tokens")

	got := buf.String()
	if !strings.HasPrefix(got, consolePrefixes[Debug]) {
		t.Errorf("missing colour badge: %q", got)
	}
	if !strings.Contains(got, "[DEBUG] [14:03:07] - lexed 3 tokens") {
		t.Errorf("missing message: %q", got)
	}
	if !strings.HasSuffix(got, consoleReset+"\n") {
		t.Errorf("colour not reset: %q", got)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	var rec Recorder
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Logf(&rec, Info, "worker %d", i)
		}()
	}
	wg.Wait()
	if n := len(rec.Entries()); n != 50 {
		t.Errorf("got %d entries, want 50", n)
	}
}

func TestLogfNilLogger(t *testing.T) {
	Logf(nil, Error, "ignored %d", 1)
	Discard.Record(Error, "ignored")
}

func TestLevelString(t *testing.T) {
	if Wait.String() != "WAIT" || Raw.String() != "RAW" || Level(42).String() != "Level(42)" {
		t.Errorf("unexpected level names: %s %s %s", Wait, Raw, Level(42))
	}
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	log := Slog{Logger: slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	log.Record(Done, "saved")
	log.Record(Warn, "careful")
	log.Record(Raw, "verbatim")
	log.Record(Debug, "details")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}

	var records []map[string]any
	for _, l := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err != nil {
			t.Fatalf("invalid JSON %q: %v", l, err)
		}
		records = append(records, m)
	}

	if records[0]["level"] != "INFO" || records[0]["stage"] != "DONE" || records[0]["msg"] != "saved" {
		t.Errorf("Done record = %v", records[0])
	}
	if records[1]["level"] != "WARN" {
		t.Errorf("Warn record = %v", records[1])
	}
	if records[2]["raw"] != true {
		t.Errorf("Raw record = %v", records[2])
	}
	if records[3]["level"] != "DEBUG" {
		t.Errorf("Debug record = %v", records[3])
	}
}

func TestWriterArtifact(t *testing.T) {
	var buf bytes.Buffer
	if err := (Writer{W: &buf}).Accept("int main() {}\n"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "int main() {}\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFileArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "demo.c")
	f := File{Path: path}
	if err := f.Accept("first"); err != nil {
		t.Fatal(err)
	}
	if err := f.Accept("second"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want %q", data, "second")
	}
}

func TestDiskArtifact(t *testing.T) {
	disk := vfs.NewVirtualDisk()
	if err := (Disk{Disk: disk, Name: "demo.c"}).Accept("code"); err != nil {
		t.Fatal(err)
	}
	data, err := disk.Read("demo.c")
	if err != nil || string(data) != "code" {
		t.Errorf("Read() = %q, %v", data, err)
	}

	err = Disk{Disk: disk, Name: "../escape.c"}.Accept("code")
	if !errors.Is(err, vfs.ErrInvalidFilename) {
		t.Errorf("Accept() error = %v, want ErrInvalidFilename", err)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "staging ../escape.c:") {
		t.Errorf("error not annotated with the artifact name: %v", err)
	}
}
