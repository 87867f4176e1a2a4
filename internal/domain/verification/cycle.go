package verification

import (
	"fmt"
	"strings"
	"time"

	"assetverify/internal/errs"
)

type CycleStatus string

const (
	CycleActive CycleStatus = "active"
	CycleClosed CycleStatus = "closed"
)

func ParseCycleStatus(raw string) (CycleStatus, error) {
	switch CycleStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case CycleActive:
		return CycleActive, nil
	case CycleClosed:
		return CycleClosed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCycleStatus, raw)
	}
}

// Cycle is one verification window. Lifecycle: active -> closed, closed is terminal.
type Cycle struct {
	ID        uint64
	Title     string
	Notes     string
	Status    CycleStatus
	StartDate time.Time
	EndDate   *time.Time
	CreatedBy string
	ClosedBy  string
}

func (c Cycle) IsActive() bool {
	return c.Status == CycleActive
}

func FormatCycleRef(cycleID uint64) string {
	return fmt.Sprintf("cycle#%d", cycleID)
}

func (c Cycle) Ref() string {
	return FormatCycleRef(c.ID)
}

// NewCycle validates the start request and returns the cycle to persist.
func NewCycle(title string, notes string, createdBy string, now time.Time) (Cycle, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Cycle{}, errs.E(errs.KindValidation, ErrTitleRequired, "cycle title is required")
	}
	createdBy = strings.TrimSpace(createdBy)
	if createdBy == "" {
		return Cycle{}, errs.E(errs.KindValidation, ErrActorRequired, "createdBy is required to start a cycle")
	}

	return Cycle{
		Title:     title,
		Notes:     strings.TrimSpace(notes),
		Status:    CycleActive,
		StartDate: now,
		CreatedBy: createdBy,
	}, nil
}

// CheckCanStart rejects a start while another cycle is active.
func CheckCanStart(active Cycle, found bool) error {
	if !found {
		return nil
	}
	return errs.InvalidState(
		ErrCycleAlreadyActive,
		"verification cycle %s %q is already active; close it before starting a new one",
		active.Ref(),
		active.Title,
	)
}

// Close transitions an active cycle to closed.
func (c Cycle) Close(closedBy string, now time.Time) (Cycle, error) {
	closedBy = strings.TrimSpace(closedBy)
	if closedBy == "" {
		return Cycle{}, errs.E(errs.KindValidation, ErrActorRequired, "closedBy is required to close a cycle")
	}
	if !c.IsActive() {
		return Cycle{}, errs.InvalidState(
			ErrCycleAlreadyClosed,
			"verification cycle %s is already closed",
			c.Ref(),
		)
	}

	closed := c
	end := now
	closed.Status = CycleClosed
	closed.EndDate = &end
	closed.ClosedBy = closedBy
	return closed, nil
}

// CheckAcceptsSubmissions rejects submissions addressed to a closed cycle.
func (c Cycle) CheckAcceptsSubmissions() error {
	if c.IsActive() {
		return nil
	}
	return errs.CycleClosed(
		ErrCycleNotActive,
		"verification cycle %s is closed and no longer accepts submissions",
		c.Ref(),
	)
}
