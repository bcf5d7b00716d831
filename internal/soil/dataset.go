// Package soil holds the in-memory soil survey dataset and resolves a
// representative soil snapshot for a free-text location.
package soil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/agronomy-cli/internal/model"
)

// DefaultSearchLimit caps Search when no positive limit is given.
const DefaultSearchLimit = 10

// Dataset is an immutable collection of soil readings. A nil *Dataset is
// valid and behaves as an empty dataset.
type Dataset struct {
	rows []model.SoilReading
}

// NewDataset wraps rows. The slice is copied.
func NewDataset(rows []model.SoilReading) *Dataset {
	cp := make([]model.SoilReading, len(rows))
	copy(cp, rows)
	return &Dataset{rows: cp}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Loaded reports whether a dataset is present, even if empty.
func (d *Dataset) Loaded() bool {
	return d != nil
}

// Resolve returns the aggregate soil profile for rows whose location,
// district, state or soil type contain query (case-insensitive). An empty
// query or no match aggregates the whole dataset; an empty dataset yields
// model.NeutralSnapshot.
func (d *Dataset) Resolve(query string) model.SoilSnapshot {
	if d.Len() == 0 {
		return model.NeutralSnapshot()
	}

	rows := d.match(query)
	if len(rows) == 0 {
		rows = d.rows
	}
	return aggregate(rows)
}

// SearchResult is a matching row plus a display label.
type SearchResult struct {
	Label string `json:"label"`
	model.SoilReading
}

// Search returns up to limit rows matching query in dataset order. An empty
// query matches every row.
func (d *Dataset) Search(query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	rows := d.match(query)
	if strings.TrimSpace(query) == "" && d != nil {
		rows = d.rows
	}

	out := make([]SearchResult, 0, min(limit, len(rows)))
	for _, r := range rows {
		if len(out) == limit {
			break
		}
		out = append(out, SearchResult{
			Label:       fmt.Sprintf("%s, %s, %s — %s", r.Location, r.District, r.State, r.SoilType),
			SoilReading: r,
		})
	}
	return out
}

// States lists distinct non-blank states sorted case-insensitively.
func (d *Dataset) States() []string {
	if d == nil {
		return []string{}
	}
	vals := make([]string, 0, len(d.rows))
	for _, r := range d.rows {
		vals = append(vals, r.State)
	}
	return distinctSorted(vals)
}

// Districts lists distinct non-blank districts, restricted to state when it
// is non-empty (case-insensitive, trimmed comparison).
func (d *Dataset) Districts(state string) []string {
	if d == nil {
		return []string{}
	}
	state = strings.TrimSpace(state)
	vals := make([]string, 0, len(d.rows))
	for _, r := range d.rows {
		if state != "" && !strings.EqualFold(strings.TrimSpace(r.State), state) {
			continue
		}
		vals = append(vals, r.District)
	}
	return distinctSorted(vals)
}

func (d *Dataset) match(query string) []model.SoilReading {
	if d == nil {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []model.SoilReading
	for _, r := range d.rows {
		if containsFold(r.Location, q) || containsFold(r.District, q) ||
			containsFold(r.State, q) || containsFold(r.SoilType, q) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func distinctSorted(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := []string{}
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
