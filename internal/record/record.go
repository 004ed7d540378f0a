// Package record owns the persisted attendance list: an ordered, newest-first
// collection with append and delete-by-id, plus the derived dashboard
// read-model and table exports.
package record

import (
	"context"
	"time"
)

// Attendance status values stamped by the check-in workflow.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Gender values accepted on a draft.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Departments lists the known department codes, used for normalizing
// extraction output and for the dashboard filter.
var Departments = []string{"BSIT", "BSHM", "BSTM", "BSBA", "BTVTED"}

// Record is a single committed attendance entry. Timestamps are RFC3339
// strings because that is the persisted schema; a missing field decodes to the
// zero value rather than an error.
type Record struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Department       string `json:"department"`
	Gender           string `json:"gender"`
	Age              string `json:"age"`
	DOB              string `json:"dob"`
	Email            string `json:"email"`
	Timestamp        string `json:"timestamp"`
	AttendanceStatus string `json:"attendanceStatus"`
}

// Store is the persisted record list. Mutations flush synchronously; All
// returns a newest-first snapshot.
type Store interface {
	// Append prepends the record to the list.
	Append(ctx context.Context, rec Record) error
	// Remove deletes the first (newest) record whose id matches. Removing an
	// unknown id is a no-op.
	Remove(ctx context.Context, id string) error
	// All returns a read-only snapshot, newest first.
	All(ctx context.Context) ([]Record, error)
}

// Seed returns the demo roster loaded when no data has been persisted yet.
func Seed() []Record {
	now := time.Now().UTC()
	return []Record{
		{
			ID: "S003", Name: "Charlie Brown", Department: "BSBA",
			Gender: GenderMale, Age: "22", DOB: "2002-11-30",
			Email: "charlie@example.com",
			Timestamp: now.Format(time.RFC3339), AttendanceStatus: StatusAbsent,
		},
		{
			ID: "S002", Name: "Bob Smith", Department: "BSHM",
			Gender: GenderMale, Age: "21", DOB: "2003-08-22",
			Email: "bob@example.com",
			Timestamp: now.Add(-12 * time.Hour).Format(time.RFC3339), AttendanceStatus: StatusPresent,
		},
		{
			ID: "S001", Name: "Alice Johnson", Department: "BSIT",
			Gender: GenderFemale, Age: "20", DOB: "2004-05-15",
			Email: "alice@example.com",
			Timestamp: now.Add(-24 * time.Hour).Format(time.RFC3339), AttendanceStatus: StatusPresent,
		},
	}
}
