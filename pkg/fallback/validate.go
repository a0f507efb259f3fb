package fallback

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// FileStatus is the inventory state of one snapshot file.
type FileStatus struct {
	File      string `json:"file"`
	Present   bool   `json:"present"`
	Parseable bool   `json:"parseable"`
	Rows      int    `json:"rows"`
	Error     string `json:"error,omitempty"`
}

// Report is the result of an inventory validation pass. Healthy means every
// mapped file is present and parseable.
type Report struct {
	CheckedAt time.Time    `json:"checked_at"`
	Files     []FileStatus `json:"files"`
	Healthy   bool         `json:"healthy"`
}

// ValidateInventory checks every file the mapping can resolve to, in
// parallel, and reports per-file health. It reads directly from disk and
// does not touch the result cache, so it reflects the current state of the
// snapshot directory.
func (s *Store) ValidateInventory(ctx context.Context) Report {
	files := make(map[string]struct{})
	for _, m := range s.mapping {
		if m.Default != "" {
			files[m.Default] = struct{}{}
		}
		for _, f := range m.SubOptions {
			files[f] = struct{}{}
		}
	}

	names := make([]string, 0, len(files))
	for f := range files {
		names = append(names, f)
	}
	sort.Strings(names)

	statuses := make([]FileStatus, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			statuses[i] = s.checkFile(name)
			return nil
		})
	}
	err := g.Wait()

	report := Report{CheckedAt: time.Now().UTC(), Files: statuses, Healthy: err == nil}
	for _, st := range statuses {
		if !st.Present || !st.Parseable {
			report.Healthy = false
		}
	}
	return report
}

func (s *Store) checkFile(name string) FileStatus {
	status := FileStatus{File: name}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Present = true

	rec, err := parseCSV(data)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Parseable = true
	status.Rows = len(rec.Body)
	return status
}
