package sweep

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV writes the aggregated sweep table in the harness format:
// sample,nr,dr,df,rf,avg_prey,std_prey,avg_predators,std_predators.
func WriteCSV(path string, rows []SampleStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"sample", "nr", "dr", "df", "rf",
		"avg_prey", "std_prey", "avg_predators", "std_predators",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Sample),
			strconv.Itoa(r.NR),
			formatFloat(r.DR),
			formatFloat(r.DF),
			formatFloat(r.RF),
			formatFloat(r.AvgPrey),
			formatFloat(r.StdPrey),
			formatFloat(r.AvgPredators),
			formatFloat(r.StdPredators),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
