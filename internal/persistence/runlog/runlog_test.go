package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func readEntries(t *testing.T, path string) []StepEntry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var out []StepEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e StepEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %d: %v", len(out)+1, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestStepLogger_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.jsonl.zst")
	l, err := NewStepLogger(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	want := []StepEntry{
		{Step: 1, Predators: 30, Prey: 500},
		{Step: 2, Predators: 28, Prey: 483},
		{Step: 3, Predators: 31, Prey: 466},
	}
	for _, e := range want {
		if err := l.WriteStep(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestWriter_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl.zst")
	for pass := 0; pass < 2; pass++ {
		l, err := NewStepLogger(path)
		if err != nil {
			t.Fatalf("pass %d new: %v", pass, err)
		}
		if err := l.WriteStep(StepEntry{Step: pass + 1}); err != nil {
			t.Fatalf("pass %d write: %v", pass, err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("pass %d close: %v", pass, err)
		}
	}
	got := readEntries(t, path)
	if len(got) != 1 || got[0].Step != 2 {
		t.Fatalf("reopen should truncate, got %+v", got)
	}
}
