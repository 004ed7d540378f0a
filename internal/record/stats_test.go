package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Zero(t, st.Total)
	assert.Equal(t, "None", st.TopDepartment)
	assert.Equal(t, "N/A", st.LatestEntry)
	assert.Empty(t, st.ByDepartment)
}

func TestComputeStatsGroupsAndTopDepartment(t *testing.T) {
	recs := []Record{
		{ID: "R3", Department: "BSIT", Gender: GenderFemale, Timestamp: "2026-08-28T14:30:00Z"},
		{ID: "R2", Department: "BSHM", Gender: GenderMale, Timestamp: "2026-08-28T13:00:00Z"},
		{ID: "R1", Department: "BSIT", Gender: GenderMale, Timestamp: "2026-08-28T12:00:00Z"},
	}

	st := ComputeStats(recs)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, "BSIT", st.TopDepartment)
	assert.Equal(t, "14:30", st.LatestEntry)
	assert.Equal(t, []NameCount{{Name: "BSIT", Value: 2}, {Name: "BSHM", Value: 1}}, st.ByDepartment)
	assert.Equal(t, []NameCount{{Name: GenderFemale, Value: 1}, {Name: GenderMale, Value: 2}}, st.ByGender)
}

func TestComputeStatsTieGoesToFirstEncountered(t *testing.T) {
	recs := []Record{
		{ID: "R2", Department: "BSHM", Timestamp: "2026-08-28T13:00:00Z"},
		{ID: "R1", Department: "BSIT", Timestamp: "2026-08-28T12:00:00Z"},
	}
	assert.Equal(t, "BSHM", ComputeStats(recs).TopDepartment)
}

func TestFilterApply(t *testing.T) {
	recs := []Record{
		{ID: "S3", Name: "Cara", Email: "cara@x.com", Department: "BSIT", Gender: GenderFemale, AttendanceStatus: StatusPresent},
		{ID: "S2", Name: "Bob", Email: "bob@x.com", Department: "BSHM", Gender: GenderMale, AttendanceStatus: StatusAbsent},
		{ID: "S1", Name: "Ann", Email: "ann@x.com", Department: "BSIT", Gender: GenderFemale, AttendanceStatus: StatusAbsent},
	}

	assert.Len(t, Filter{}.Apply(recs), 3)
	assert.Len(t, Filter{Department: "BSIT"}.Apply(recs), 2)
	assert.Len(t, Filter{Gender: GenderMale}.Apply(recs), 1)
	assert.Len(t, Filter{Status: StatusAbsent}.Apply(recs), 2)

	byQuery := Filter{Query: "BOB"}.Apply(recs)
	assert.Len(t, byQuery, 1)
	assert.Equal(t, "S2", byQuery[0].ID)

	limited := Filter{Limit: 2}.Apply(recs)
	assert.Equal(t, []string{"S3", "S2"}, []string{limited[0].ID, limited[1].ID})

	combined := Filter{Department: "BSIT", Status: StatusAbsent}.Apply(recs)
	assert.Len(t, combined, 1)
	assert.Equal(t, "S1", combined[0].ID)
}
