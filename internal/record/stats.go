package record

import (
	"strings"
	"time"
)

// NameCount is one slice of a grouped count, ordered by first appearance.
type NameCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats is the dashboard read-model, recomputed from a full snapshot on every
// read. Record counts are human-scale so no incremental maintenance is kept.
type Stats struct {
	Total         int         `json:"total"`
	TopDepartment string      `json:"topDepartment"`
	LatestEntry   string      `json:"latestEntry"`
	ByDepartment  []NameCount `json:"byDept"`
	ByGender      []NameCount `json:"byGender"`
}

// ComputeStats folds a newest-first snapshot into dashboard numbers. Ties for
// the top department go to the department encountered first.
func ComputeStats(recs []Record) Stats {
	st := Stats{
		Total:         len(recs),
		TopDepartment: "None",
		LatestEntry:   "N/A",
		ByDepartment:  countBy(recs, func(r Record) string { return r.Department }),
		ByGender:      countBy(recs, func(r Record) string { return r.Gender }),
	}
	best := -1
	for i, nc := range st.ByDepartment {
		if best < 0 || nc.Value > st.ByDepartment[best].Value {
			best = i
		}
	}
	if best >= 0 {
		st.TopDepartment = st.ByDepartment[best].Name
	}
	if len(recs) > 0 {
		st.LatestEntry = formatEntryTime(recs[0].Timestamp)
	}
	return st
}

func countBy(recs []Record, key func(Record) string) []NameCount {
	index := map[string]int{}
	var out []NameCount
	for _, rec := range recs {
		k := key(rec)
		if i, ok := index[k]; ok {
			out[i].Value++
			continue
		}
		index[k] = len(out)
		out = append(out, NameCount{Name: k, Value: 1})
	}
	return out
}

func formatEntryTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04")
}

// Filter narrows the admin table. Empty fields match everything; Query is a
// case-insensitive substring match over id, name, and email.
type Filter struct {
	Department string
	Gender     string
	Status     string
	Query      string
	Limit      int
}

// Apply returns the records matching f, preserving order.
func (f Filter) Apply(recs []Record) []Record {
	out := []Record{}
	q := strings.ToLower(f.Query)
	for _, rec := range recs {
		if f.Department != "" && rec.Department != f.Department {
			continue
		}
		if f.Gender != "" && rec.Gender != f.Gender {
			continue
		}
		if f.Status != "" && rec.AttendanceStatus != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(rec.ID), q) &&
			!strings.Contains(strings.ToLower(rec.Name), q) &&
			!strings.Contains(strings.ToLower(rec.Email), q) {
			continue
		}
		out = append(out, rec)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}
