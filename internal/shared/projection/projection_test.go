package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataLifecycle(t *testing.T) {
	created := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	meta := Created(created)
	assert.Equal(t, created, meta.CreatedAt)
	assert.Equal(t, created, meta.UpdatedAt)

	later := created.Add(time.Hour)
	touched := meta.Touched(later)
	assert.Equal(t, created, touched.CreatedAt)
	assert.Equal(t, later, touched.UpdatedAt)
}

func TestMetadataPointersSkipZeroTimes(t *testing.T) {
	var meta Metadata
	assert.Nil(t, meta.CreatedAtPtr())
	assert.Nil(t, meta.UpdatedAtPtr())

	ts := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	meta = Created(ts)
	require.NotNil(t, meta.CreatedAtPtr())
	assert.Equal(t, ts, *meta.CreatedAtPtr())
}

func TestNewProjection(t *testing.T) {
	meta := Created(time.Unix(0, 0))
	p := New("payment", meta)
	assert.Equal(t, "payment", p.Entity)
	assert.Equal(t, meta, p.Metadata)
}
