package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/csheth/citelens/internal/tuitest"
)

func TestCiteLensEmptyLibraryShowsPicker(t *testing.T) {
	t.Parallel()

	binary := buildBinary(t)
	libraryDir := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-library", libraryDir},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        5 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.AnyFrameContains("CiteLens") {
		t.Fatalf("hero title not rendered\n%s", rec.PlainOutput())
	}
	if !rec.AnyFrameContains("No contract sets found") {
		t.Fatalf("empty library notice not rendered\n%s", rec.PlainOutput())
	}
}

func TestCiteLensPickerListsContractSets(t *testing.T) {
	t.Parallel()

	binary := buildBinary(t)
	libraryDir := t.TempDir()
	setDir := filepath.Join(libraryDir, "acme")
	if err := os.MkdirAll(setDir, 0o755); err != nil {
		t.Fatalf("create set dir: %v", err)
	}
	// Content does not matter for the picker; documents only render after
	// the set is opened.
	if err := os.WriteFile(filepath.Join(setDir, "nda.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-library", libraryDir},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			tuitest.Press(time.Second, tuitest.KeyDown),
			tuitest.Press(200*time.Millisecond, tuitest.KeyUp),
			tuitest.Press(200*time.Millisecond, tuitest.KeyCtrlC),
		},
		Timeout:        5 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.AnyFrameContains("ACME") {
		t.Fatalf("contract set not listed\n%s", rec.PlainOutput())
	}
	if !rec.AnyFrameContains("Pick a contract set to begin.") {
		t.Fatalf("picker hint not rendered\n%s", rec.PlainOutput())
	}
}

func buildBinary(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	cmdDir := filepath.Dir(file)

	tmp := t.TempDir()
	name := "citelens-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
