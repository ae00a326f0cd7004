package scanning

import (
	"fmt"
	"time"
)

// Default duplicate-detection windows. A repeat scan of the same order
// inside the order window is always refused; a different order sharing
// a phone inside the phone window needs operator confirmation.
const (
	DefaultOrderWindow = 7 * 24 * time.Hour
	DefaultPhoneWindow = 3 * 24 * time.Hour
)

// DuplicatePolicy classifies a scan attempt against recent ledger
// history. The policy itself is pure: callers fetch the candidate
// records and the policy decides.
type DuplicatePolicy struct {
	orderWindow time.Duration
	phoneWindow time.Duration
}

// NewDuplicatePolicy creates a policy with the given windows. Zero or
// negative windows fall back to the defaults.
func NewDuplicatePolicy(orderWindow, phoneWindow time.Duration) *DuplicatePolicy {
	if orderWindow <= 0 {
		orderWindow = DefaultOrderWindow
	}
	if phoneWindow <= 0 {
		phoneWindow = DefaultPhoneWindow
	}
	return &DuplicatePolicy{orderWindow: orderWindow, phoneWindow: phoneWindow}
}

// OrderWindow returns the recency window for same-order duplicates
func (p *DuplicatePolicy) OrderWindow() time.Duration {
	return p.orderWindow
}

// PhoneWindow returns the recency window for same-phone duplicates
func (p *DuplicatePolicy) PhoneWindow() time.Duration {
	return p.phoneWindow
}

// ClassifyInput carries a scan attempt plus the ledger history the
// policy needs. RecentSameOrder holds records matching the order name
// within the order window; RecentSamePhone holds records matching the
// phone within the phone window (any order name).
type ClassifyInput struct {
	OrderName        string
	Phone            string
	ConfirmDuplicate bool
	RecentSameOrder  []ScanRecord
	RecentSamePhone  []ScanRecord
}

// Classify decides whether a scan attempt is new, a hard duplicate, or
// needs confirmation. A same-order duplicate is terminal: no flag
// bypasses it. A same-phone duplicate on a different order is soft and
// proceeds when ConfirmDuplicate is set. Empty phones never trigger
// the phone check.
func (p *DuplicatePolicy) Classify(in ClassifyInput) Verdict {
	if len(in.RecentSameOrder) > 0 {
		return Verdict{
			Decision: DecisionReject,
			Reason:   fmt.Sprintf("order %s already scanned", in.OrderName),
		}
	}

	if in.Phone != "" {
		for _, rec := range in.RecentSamePhone {
			if rec.Phone == "" || rec.OrderName == in.OrderName {
				continue
			}
			if in.ConfirmDuplicate {
				break
			}
			return Verdict{
				Decision: DecisionNeedsConfirmation,
				Reason: fmt.Sprintf("phone already scanned for order %s in the last %d days",
					rec.OrderName, int(p.phoneWindow.Hours()/24)),
			}
		}
	}

	return Verdict{Decision: DecisionAccept}
}
