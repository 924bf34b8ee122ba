package sweep

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sweep.csv")
	rows := []SampleStats{
		{
			Params:  Params{Sample: 0, NR: 250, DR: 0.75, DF: 0.1, RF: 0.5},
			AvgPrey: 120.5, StdPrey: 3.25, AvgPredators: 14, StdPredators: 1.5,
		},
		{
			Params:  Params{Sample: 1, NR: 900, DR: 1, DF: 0.05, RF: 0.3},
			AvgPrey: 640, StdPrey: 0, AvgPredators: 22, StdPredators: 0,
		},
	}
	if err := WriteCSV(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("want %d records, got %d", len(rows)+1, len(records))
	}
	wantHeader := "sample,nr,dr,df,rf,avg_prey,std_prey,avg_predators,std_predators"
	if got := join(records[0]); got != wantHeader {
		t.Fatalf("header mismatch:\nwant %s\ngot  %s", wantHeader, got)
	}
	if records[1][1] != "250" || records[1][2] != "0.75" || records[1][5] != "120.5" {
		t.Fatalf("first row mangled: %v", records[1])
	}
	if records[2][0] != "1" || records[2][3] != "0.05" {
		t.Fatalf("second row mangled: %v", records[2])
	}
}

func join(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
