package scanning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T, orderName, phone string) ScanRecord {
	t.Helper()
	rec, err := NewScanRecord(orderName, orderName)
	require.NoError(t, err)
	rec.Phone = phone
	return *rec
}

func TestDuplicatePolicy_Classify(t *testing.T) {
	policy := NewDuplicatePolicy(DefaultOrderWindow, DefaultPhoneWindow)

	t.Run("fresh order accepts", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{OrderName: "#1001", Phone: "0612345678"})
		assert.Equal(t, DecisionAccept, verdict.Decision)
		assert.True(t, verdict.Accepted())
	})

	t.Run("same order rejects", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:       "#1001",
			RecentSameOrder: []ScanRecord{testRecord(t, "#1001", "")},
		})
		assert.Equal(t, DecisionReject, verdict.Decision)
		assert.Contains(t, verdict.Reason, "#1001")
	})

	t.Run("same order rejects even with confirm flag", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:        "#1001",
			ConfirmDuplicate: true,
			RecentSameOrder:  []ScanRecord{testRecord(t, "#1001", "")},
		})
		assert.Equal(t, DecisionReject, verdict.Decision)
	})

	t.Run("same phone different order needs confirmation", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:       "#1002",
			Phone:           "0612345678",
			RecentSamePhone: []ScanRecord{testRecord(t, "#1001", "0612345678")},
		})
		assert.Equal(t, DecisionNeedsConfirmation, verdict.Decision)
		assert.Contains(t, verdict.Reason, "#1001")
	})

	t.Run("same phone accepted with confirm flag", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:        "#1002",
			Phone:            "0612345678",
			ConfirmDuplicate: true,
			RecentSamePhone:  []ScanRecord{testRecord(t, "#1001", "0612345678")},
		})
		assert.Equal(t, DecisionAccept, verdict.Decision)
	})

	t.Run("empty phone skips phone check", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:       "#1002",
			Phone:           "",
			RecentSamePhone: []ScanRecord{testRecord(t, "#1001", "0612345678")},
		})
		assert.Equal(t, DecisionAccept, verdict.Decision)
	})

	t.Run("record with empty phone never counts as phone duplicate", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:       "#1002",
			Phone:           "0612345678",
			RecentSamePhone: []ScanRecord{testRecord(t, "#1001", "")},
		})
		assert.Equal(t, DecisionAccept, verdict.Decision)
	})

	t.Run("phone match on same order is not a phone duplicate", func(t *testing.T) {
		verdict := policy.Classify(ClassifyInput{
			OrderName:       "#1001",
			Phone:           "0612345678",
			RecentSamePhone: []ScanRecord{testRecord(t, "#1001", "0612345678")},
		})
		assert.Equal(t, DecisionAccept, verdict.Decision)
	})
}

func TestNewDuplicatePolicy_Defaults(t *testing.T) {
	policy := NewDuplicatePolicy(0, -time.Hour)
	assert.Equal(t, DefaultOrderWindow, policy.OrderWindow())
	assert.Equal(t, DefaultPhoneWindow, policy.PhoneWindow())

	custom := NewDuplicatePolicy(48*time.Hour, 24*time.Hour)
	assert.Equal(t, 48*time.Hour, custom.OrderWindow())
	assert.Equal(t, 24*time.Hour, custom.PhoneWindow())
}
