package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizemre/visapa/internal/domain"
)

func TestRecordPatchRequest_Footfall(t *testing.T) {
	req := RecordPatchRequest{"entering": float64(12), "exiting": nil}

	patch, err := req.ToRecordPatch(domain.KindFootfall)

	require.NoError(t, err)
	require.NotNil(t, patch.Entered)
	require.NotNil(t, patch.Exited)
	assert.Equal(t, int64(12), *patch.Entered)
	assert.Equal(t, int64(0), *patch.Exited)
}

func TestRecordPatchRequest_QueueIgnoresTotalCustomers(t *testing.T) {
	req := RecordPatchRequest{"avgWaitTime": "45.5", "totalCustomers": float64(9)}

	patch, err := req.ToRecordPatch(domain.KindQueue)

	require.NoError(t, err)
	require.NotNil(t, patch.WaitTime)
	assert.Equal(t, 45.5, *patch.WaitTime)
	assert.Nil(t, patch.Entered)
}

func TestRecordPatchRequest_Zone(t *testing.T) {
	req := RecordPatchRequest{"totalVisitors": float64(30.9), "avgDwellTime": float64(12.25)}

	patch, err := req.ToRecordPatch(domain.KindZone)

	require.NoError(t, err)
	assert.Equal(t, int64(30), *patch.VisitorCount)
	assert.Equal(t, 12.25, *patch.Intensity)
}

func TestRecordPatchRequest_ForeignField(t *testing.T) {
	_, err := RecordPatchRequest{"avgWaitTime": float64(3)}.ToRecordPatch(domain.KindFootfall)
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)

	_, err = RecordPatchRequest{"totalCustomers": float64(3)}.ToRecordPatch(domain.KindZone)
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)

	_, err = RecordPatchRequest{"unknown": float64(3)}.ToRecordPatch(domain.KindQueue)
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)
}

func TestRecordPatchRequest_NonNumeric(t *testing.T) {
	_, err := RecordPatchRequest{"entered": "many"}.ToRecordPatch(domain.KindFootfall)
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)

	_, err = RecordPatchRequest{"avgDwellTime": true}.ToRecordPatch(domain.KindZone)
	assert.ErrorIs(t, err, domain.ErrInvalidPatch)
}

func TestRecordPatchRequest_Empty(t *testing.T) {
	patch, err := RecordPatchRequest{}.ToRecordPatch(domain.KindFootfall)

	require.NoError(t, err)
	assert.Equal(t, domain.RecordPatch{}, patch)
}
