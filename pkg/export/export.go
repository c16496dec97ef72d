// Package export writes simulation reports to their external formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/coding-with-rohit-914/fastbox/core/report"
)

// ErrNoBestAgent is returned when a CSV export is requested but no
// agent delivered any package.
var ErrNoBestAgent = errors.New("no best agent in report")

// WriteJSON writes the full report to w as indented JSON.
func WriteJSON(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// SaveJSON writes the report to a file.
func SaveJSON(path string, r *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, r)
}

// WriteTopPerformerCSV writes a header plus a single row describing the
// best agent.
func WriteTopPerformerCSV(w io.Writer, r *report.Report) error {
	if r.BestAgent == nil {
		return ErrNoBestAgent
	}
	best := r.Agents[*r.BestAgent]
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent_id", "packages_delivered", "total_distance", "efficiency", "timestamp"}); err != nil {
		return err
	}
	rec := []string{
		*r.BestAgent,
		strconv.Itoa(best.PackagesDelivered),
		strconv.FormatFloat(best.TotalDistance, 'f', -1, 64),
		strconv.FormatFloat(best.Efficiency, 'f', -1, 64),
		r.GeneratedAt.Format(time.RFC3339),
	}
	if err := cw.Write(rec); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// SaveTopPerformerCSV writes the best-performer row to a file.
func SaveTopPerformerCSV(path string, r *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save csv: %w", err)
	}
	defer f.Close()
	return WriteTopPerformerCSV(f, r)
}
