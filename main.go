package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kr/pretty"
	"golang.org/x/sync/errgroup"

	"toyc/pkg/compiler"
	"toyc/pkg/eval"
	"toyc/pkg/sink"
	"toyc/pkg/utils"
	"toyc/pkg/vfs"
)

// demoSource is compiled when no -in files are given.
const demoSource = `
let x = 3 + 4;
print(x * 2);

let a: Int = 1;
let b: Float = 1.2;
let c: String = "aaaa";
let d: Char = 'c';
let e: Bool = true;

print(a);
print(b);
print(c);
print(d);
print(e);

let f: Int = a + 5;

print(f);
`

const demoArtifact = "output.c"

// unit is one program to compile.
type unit struct {
	path     string // "" for the built-in demo
	artifact string
	src      string

	prog *compiler.Program
	code string
	err  error
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("toyc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPaths := fs.String("in", "", "comma-separated source files (default: built-in demo program)")
	outDir := fs.String("out", "out", "output directory, cleaned before writing")
	toStdout := fs.Bool("stdout", false, "print generated C to stdout instead of writing files")
	runEval := fs.Bool("eval", false, "also run each program with the evaluator")
	logMode := fs.String("log", "console", "log format: console, json or off")
	debug := fs.Bool("debug", false, "log pipeline details (source, AST, generated C)")
	jobs := fs.Int("j", 4, "maximum number of files compiled concurrently")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return 2
	}
	if *jobs < 1 {
		fmt.Fprintln(stderr, "-j must be at least 1")
		return 2
	}

	log, err := newLogger(*logMode, *debug, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 2
	}

	units, err := loadUnits(*inPaths)
	if err != nil {
		log.Record(sink.Error, err.Error())
		return 1
	}

	disk := vfs.NewVirtualDisk()
	compileAll(units, disk, *jobs, *debug, log)

	failed := false
	for _, u := range units {
		if u.err != nil {
			failed = true
			log.Record(sink.Error, failure(u))
		}
	}

	if *toStdout {
		for _, u := range units {
			if u.err == nil {
				fmt.Fprint(stdout, u.code)
			}
		}
	} else if len(disk.List()) > 0 {
		if err := utils.CleanDir(*outDir); err != nil {
			log.Record(sink.Error, fmt.Sprintf("preparing %s: %v", *outDir, err))
			return 1
		}
		if err := disk.PersistTo(*outDir); err != nil {
			log.Record(sink.Error, fmt.Sprintf("writing %s: %v", *outDir, err))
			return 1
		}
		for _, name := range disk.List() {
			log.Record(sink.Done, fmt.Sprintf("C code saved to %s", filepath.Join(*outDir, name)))
		}
	}

	if *runEval {
		ev := eval.New(stdout)
		for _, u := range units {
			if u.err != nil {
				continue
			}
			if err := evaluate(ev, u, log); err != nil {
				failed = true
				log.Record(sink.Error, fmt.Sprintf("%s: %v", u.name(), err))
			}
		}
	}

	if failed {
		return 1
	}
	return 0
}

func (u *unit) name() string {
	if u.path == "" {
		return "<demo>"
	}
	return u.path
}

func newLogger(mode string, debug bool, w io.Writer) (sink.Logger, error) {
	switch mode {
	case "console":
		c := sink.NewConsole(w)
		c.ShowDebug = debug
		return c, nil
	case "json":
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		return sink.Slog{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}, nil
	case "off":
		return sink.Discard, nil
	}
	return nil, fmt.Errorf("unknown -log mode %q", mode)
}

func loadUnits(inPaths string) ([]*unit, error) {
	if inPaths == "" {
		return []*unit{{artifact: demoArtifact, src: demoSource}}, nil
	}

	var units []*unit
	seen := make(map[string]string)
	for _, p := range strings.Split(inPaths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file %q: %v", p, err)
		}
		name := utils.ArtifactName(p)
		if !vfs.ValidName(name) {
			return nil, fmt.Errorf("cannot derive an output file name from %q: %q is not a valid name", p, name)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%q and %q would both be written to %s", prev, p, name)
		}
		seen[name] = p
		units = append(units, &unit{path: p, artifact: name, src: string(data)})
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("no input files in -in %q", inPaths)
	}
	return units, nil
}

// compileAll compiles every unit, at most jobs at a time, staging successful
// results on disk. Each unit's outcome is stored on the unit itself so one
// bad file does not stop the others.
func compileAll(units []*unit, disk *vfs.VirtualDisk, jobs int, debug bool, log sink.Logger) {
	var g errgroup.Group
	g.SetLimit(jobs)

	var mu sync.Mutex // keeps multi-line debug output of one unit together
	for _, u := range units {
		g.Go(func() error {
			sink.Logf(log, sink.Info, "compiling %s", u.name())
			res, err := compiler.Build(u.src, log)
			if err != nil {
				u.err = err
				return nil
			}
			u.prog, u.code = res.Program, res.Code
			if debug {
				mu.Lock()
				logDetails(u, log)
				mu.Unlock()
			}
			u.err = sink.Disk{Disk: disk, Name: u.artifact}.Accept(u.code)
			return nil
		})
	}
	_ = g.Wait()
}

// failure renders a unit's error for the log, naming the stage that
// produced it when the error came from the compiler.
func failure(u *unit) string {
	err := compiler.WrapErrorWithSource(u.err, u.src)
	if stage := compiler.Stage(u.err); stage != "" {
		return fmt.Sprintf("%s: %s stage failed\n%v", u.name(), stage, err)
	}
	return fmt.Sprintf("%s: %v", u.name(), err)
}

// logDetails records the source, AST and generated C of a unit that
// compiled successfully.
func logDetails(u *unit, log sink.Logger) {
	sink.Logf(log, sink.Debug, "%s input:\n%s", u.name(), strings.TrimSpace(u.src))
	sink.Logf(log, sink.Debug, "%s AST:\n%s", u.name(), pretty.Sprint(u.prog))
	sink.Logf(log, sink.Debug, "%s C code:\n%s", u.name(), u.code)
}

func evaluate(ev *eval.Evaluator, u *unit, log sink.Logger) error {
	v, err := ev.EvalProgram(u.prog)
	if err != nil {
		return err
	}
	sink.Logf(log, sink.Info, "%s evaluated to %s (%s)", u.name(), v, v.Type)
	return nil
}
