package scanning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanRecord(t *testing.T) {
	t.Run("valid canonical order name", func(t *testing.T) {
		rec, err := NewScanRecord("#1001", "IRK-0001001")
		require.NoError(t, err)
		assert.Equal(t, "#1001", rec.OrderName)
		assert.Equal(t, "IRK-0001001", rec.RawBarcode)
		assert.NotZero(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("rejects non canonical order name", func(t *testing.T) {
		_, err := NewScanRecord("1001", "1001")
		assert.Error(t, err)

		_, err = NewScanRecord("#", "#")
		assert.Error(t, err)
	})
}

func TestScanRecord_ApplyCorrection(t *testing.T) {
	rec, err := NewScanRecord("#1001", "1001")
	require.NoError(t, err)
	rec.Tags = "fast"
	rec.DeliveryTag = "fast"
	before := rec.UpdatedAt

	tags := "SANDY, urgent"
	driver := "alice"
	cod := true
	rec.ApplyCorrection(ScanUpdate{Tags: &tags, Driver: &driver, COD: &cod})

	assert.Equal(t, "SANDY, urgent", rec.Tags)
	assert.Equal(t, "sand", rec.DeliveryTag, "delivery tag re-derived from corrected tags")
	assert.Equal(t, "alice", rec.Driver)
	assert.True(t, rec.COD)
	assert.True(t, rec.UpdatedAt.After(before) || rec.UpdatedAt.Equal(before))
}

func TestScanUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ScanUpdate{}.IsEmpty())

	driver := "bob"
	assert.False(t, ScanUpdate{Driver: &driver}.IsEmpty())
}
