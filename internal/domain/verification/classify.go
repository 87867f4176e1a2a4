package verification

import (
	"fmt"
	"strings"
	"time"
)

// Status is the per-record attestation outcome.
type Status string

const (
	StatusVerified Status = "Verified"
	StatusPending  Status = "Pending"
	StatusFlagged  Status = "Flagged"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusVerified:
		return StatusVerified, nil
	case StatusPending:
		return StatusPending, nil
	case StatusFlagged:
		return StatusFlagged, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

const (
	DefaultLostSentinel = "__LOST__"
	LostNote            = "Reported lost by user"
	MismatchNote        = "ID Mismatch reported by user"
)

// Record is one immutable attestation for (cycle, employee, asset). A later record for the
// same triple supersedes it; records are never rewritten.
type Record struct {
	ID               uint64
	CycleID          uint64
	EmployeeID       string
	AssetID          string
	EnteredAssetID   string
	Status           Status
	Notes            string
	VerificationDate *time.Time
	IsMatch          bool
}

// Submitted reports whether the record came from an actual attestation rather than
// the implicit Pending state of an assigned asset.
func (r Record) Submitted() bool {
	return r.VerificationDate != nil
}

// IsDiscrepant is true for a submitted record that did not verify the asset.
func (r Record) IsDiscrepant() bool {
	return r.Status == StatusFlagged || (r.Status == StatusPending && !r.IsMatch)
}

type Classification struct {
	Status         Status
	IsMatch        bool
	EnteredAssetID string
	Notes          string
}

// Classifier decides the status of one entered value against the canonical asset tag.
type Classifier struct {
	lostSentinel string
}

func NewClassifier(lostSentinel string) Classifier {
	lostSentinel = strings.TrimSpace(lostSentinel)
	if lostSentinel == "" {
		lostSentinel = DefaultLostSentinel
	}
	return Classifier{lostSentinel: lostSentinel}
}

func (c Classifier) LostSentinel() string {
	if c.lostSentinel == "" {
		return DefaultLostSentinel
	}
	return c.lostSentinel
}

func (c Classifier) IsLost(entered string) bool {
	return strings.EqualFold(strings.TrimSpace(entered), c.LostSentinel())
}

// Classify is pure: the same three inputs always produce the same result.
// A non-empty note overrides the default note for lost and mismatched entries.
func (c Classifier) Classify(canonicalTag string, entered string, note string) Classification {
	note = strings.TrimSpace(note)
	trimmed := strings.TrimSpace(entered)

	switch {
	case c.IsLost(trimmed):
		return Classification{
			Status:         StatusFlagged,
			IsMatch:        false,
			EnteredAssetID: c.LostSentinel(),
			Notes:          firstNonEmpty(note, LostNote),
		}
	case trimmed == "":
		return Classification{
			Status:  StatusPending,
			IsMatch: false,
			Notes:   note,
		}
	case normalizeTag(trimmed) == normalizeTag(canonicalTag):
		return Classification{
			Status:         StatusVerified,
			IsMatch:        true,
			EnteredAssetID: normalizeTag(trimmed),
			Notes:          note,
		}
	default:
		return Classification{
			Status:         StatusPending,
			IsMatch:        false,
			EnteredAssetID: normalizeTag(trimmed),
			Notes:          firstNonEmpty(note, MismatchNote),
		}
	}
}

// UnsubmittedRecord is the implicit state of an assigned asset with no record in the cycle.
func UnsubmittedRecord(cycleID uint64, employeeID string, assetID string) Record {
	return Record{
		CycleID:    cycleID,
		EmployeeID: employeeID,
		AssetID:    assetID,
		Status:     StatusPending,
	}
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
