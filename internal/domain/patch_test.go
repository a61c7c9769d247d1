package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestRecordPatch_Apply_Footfall(t *testing.T) {
	rec := &FootfallEvent{ID: "f1", Entered: 4, Exited: 2, MaleCount: 3}

	err := RecordPatch{Entered: int64Ptr(10)}.Apply(rec)

	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.Entered)
	assert.Equal(t, int64(2), rec.Exited, "unset fields are left alone")
	assert.Equal(t, int64(3), rec.MaleCount)
}

func TestRecordPatch_Apply_Queue(t *testing.T) {
	rec := &QueueEvent{ID: "q1"}

	err := RecordPatch{WaitTime: float64Ptr(42.5)}.Apply(rec)

	require.NoError(t, err)
	require.NotNil(t, rec.WaitTime)
	assert.Equal(t, 42.5, *rec.WaitTime)
}

func TestRecordPatch_Apply_Zone(t *testing.T) {
	rec := &ZoneEvent{ID: "z1", VisitorCount: int64Ptr(1)}

	err := RecordPatch{VisitorCount: int64Ptr(30), Intensity: float64Ptr(12)}.Apply(rec)

	require.NoError(t, err)
	assert.Equal(t, int64(30), rec.Visitors())
	assert.Equal(t, 12.0, rec.Dwell())
}

func TestRecordPatch_Apply_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		patch RecordPatch
		rec   Record
	}{
		{"wait time on footfall", RecordPatch{WaitTime: float64Ptr(1)}, &FootfallEvent{}},
		{"counts on queue", RecordPatch{Entered: int64Ptr(1)}, &QueueEvent{}},
		{"visitors on queue", RecordPatch{VisitorCount: int64Ptr(1)}, &QueueEvent{}},
		{"wait time on zone", RecordPatch{WaitTime: float64Ptr(1)}, &ZoneEvent{}},
		{"negative entered", RecordPatch{Entered: int64Ptr(-1)}, &FootfallEvent{}},
		{"negative visitors", RecordPatch{VisitorCount: int64Ptr(-5)}, &ZoneEvent{}},
		{"negative wait", RecordPatch{WaitTime: float64Ptr(-0.5)}, &QueueEvent{}},
		{"huge wait", RecordPatch{WaitTime: float64Ptr(1e308)}, &QueueEvent{}},
		{"huge dwell", RecordPatch{Intensity: float64Ptr(MaxMeasure + 1)}, &ZoneEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Apply(tt.rec)

			assert.ErrorIs(t, err, ErrInvalidPatch)
		})
	}
}

func TestRecordPatch_Apply_RejectedPatchLeavesRecord(t *testing.T) {
	rec := &FootfallEvent{Entered: 4}

	err := RecordPatch{Entered: int64Ptr(9), WaitTime: float64Ptr(3)}.Apply(rec)

	require.Error(t, err)
	assert.Equal(t, int64(4), rec.Entered)
}

func TestRecordKey_IncludesOwnerAndKind(t *testing.T) {
	a := RecordKey(&QueueEvent{ID: "rec-1", OwnerID: 7})
	b := RecordKey(&QueueEvent{ID: "rec-1", OwnerID: 9})
	c := RecordKey(&ZoneEvent{ID: "rec-1", OwnerID: 7})

	assert.Equal(t, "queue:7:rec-1", a)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"footfall":  KindFootfall,
		"customers": KindFootfall,
		"queues":    KindQueue,
		"heatmaps":  KindZone,
		"zone":      KindZone,
	}
	for in, want := range tests {
		got, ok := ParseKind(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseKind("doors")
	assert.False(t, ok)
}

func TestQueueEvent_Defaults(t *testing.T) {
	e := &QueueEvent{}
	assert.Equal(t, int64(1), e.Customers())
	assert.Equal(t, 0.0, e.Wait())

	e.TotalCustomers = int64Ptr(3)
	e.WaitTime = float64Ptr(-4)
	assert.Equal(t, int64(3), e.Customers())
	assert.Equal(t, 0.0, e.Wait())
}
