package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, parent, err := GetPathInfo("testdata/../a/b.toy")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("fullPath %q is not absolute", full)
	}
	if filepath.Base(full) != "b.toy" {
		t.Errorf("fullPath %q, want base b.toy", full)
	}
	if filepath.Base(parent) != "a" {
		t.Errorf("parentDir %q, want base a", parent)
	}
}

func TestCleanDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old.c"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CleanDir(dir); err != nil {
		t.Fatalf("CleanDir() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("output dir missing after CleanDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("CleanDir left %d entries behind", len(entries))
	}
}

func TestCleanDirCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh", "out")
	if err := CleanDir(dir); err != nil {
		t.Fatalf("CleanDir() error = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected %s to exist as a directory", dir)
	}
}

func TestCleanDirRefusesWorkingDirAndAncestors(t *testing.T) {
	project := filepath.Join(t.TempDir(), "root", "project")
	src := filepath.Join(project, "main.toy")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("print(1);"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(project)

	tests := []string{".", "..", "../..", string(filepath.Separator), project, "./"}
	for _, dir := range tests {
		t.Run(dir, func(t *testing.T) {
			if err := CleanDir(dir); err == nil {
				t.Errorf("CleanDir(%q) should refuse a directory holding the working directory", dir)
			}
			if _, err := os.Stat(src); err != nil {
				t.Fatalf("working tree damaged: %v", err)
			}
		})
	}
}

func TestCleanDirAllowsSiblingsAndChildren(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "project")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(project)

	// "../project-out" shares a name prefix with the working directory but
	// does not contain it.
	for _, dir := range []string{"out", "../project-out", filepath.Join(root, "elsewhere")} {
		if err := CleanDir(dir); err != nil {
			t.Errorf("CleanDir(%q) error = %v", dir, err)
		}
	}
}

func TestArtifactName(t *testing.T) {
	tests := map[string]string{
		"demo.toy":     "demo.c",
		"src/calc.toy": "calc.c",
		"noext":        "noext.c",
		"a.b.toy":      "a.b.c",
	}
	for in, want := range tests {
		if got := ArtifactName(in); got != want {
			t.Errorf("ArtifactName(%q) = %q, want %q", in, got, want)
		}
	}
}
