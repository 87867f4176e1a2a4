package verification

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
)

func TestStartCycleWhileActiveFails(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	first, err := env.svc.StartCycle(ctx, StartCycleInput{Title: "Q4 audit", CreatedBy: "admin", Notes: "laptops first"})
	if err != nil {
		t.Fatalf("StartCycle() error = %v", err)
	}

	_, err = env.svc.StartCycle(ctx, StartCycleInput{Title: "Second", CreatedBy: "admin"})
	if !errs.IsKind(err, errs.KindInvalidState) || !errors.Is(err, domainverification.ErrCycleAlreadyActive) {
		t.Fatalf("StartCycle(second) error = %v, want invalid state", err)
	}

	active, found, err := env.svc.GetActiveCycle(ctx)
	if err != nil || !found {
		t.Fatalf("GetActiveCycle() found=%v err=%v", found, err)
	}
	if active.ID != first.ID || active.Title != "Q4 audit" || active.Notes != "laptops first" || active.EndDate != nil {
		t.Fatalf("active cycle changed: %+v", active)
	}
	cycles, err := env.svc.ListCycles(ctx)
	if err != nil || len(cycles) != 1 {
		t.Fatalf("ListCycles() len=%d err=%v", len(cycles), err)
	}
}

func TestStartCycleValidation(t *testing.T) {
	env := setupService(t)

	_, err := env.svc.StartCycle(context.Background(), StartCycleInput{Title: "   ", CreatedBy: "admin"})
	if !errs.IsKind(err, errs.KindValidation) {
		t.Fatalf("StartCycle(blank title) error = %v, want validation", err)
	}
	if _, found, _ := env.svc.GetActiveCycle(context.Background()); found {
		t.Fatalf("blank title created a cycle")
	}
}

func TestCloseCycleTransitions(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	cycleID := startCycle(t, env, "Q4")

	if _, err := env.svc.CloseCycle(ctx, CloseCycleInput{CycleID: 999, ClosedBy: "admin"}); !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("CloseCycle(missing) error = %v, want not found", err)
	}
	if _, err := env.svc.CloseCycle(ctx, CloseCycleInput{CycleID: cycleID}); !errs.IsKind(err, errs.KindValidation) {
		t.Fatalf("CloseCycle(no actor) error = %v, want validation", err)
	}

	closed, err := env.svc.CloseCycle(ctx, CloseCycleInput{CycleID: cycleID, ClosedBy: "auditor"})
	if err != nil {
		t.Fatalf("CloseCycle() error = %v", err)
	}
	if closed.Status != domainverification.CycleClosed || closed.EndDate == nil || closed.ClosedBy != "auditor" {
		t.Fatalf("CloseCycle() = %+v", closed)
	}

	_, err = env.svc.CloseCycle(ctx, CloseCycleInput{CycleID: cycleID, ClosedBy: "auditor"})
	if !errs.IsKind(err, errs.KindInvalidState) || !errors.Is(err, domainverification.ErrCycleAlreadyClosed) {
		t.Fatalf("CloseCycle(closed) error = %v, want invalid state", err)
	}

	if _, found, err := env.svc.GetActiveCycle(ctx); err != nil || found {
		t.Fatalf("GetActiveCycle() after close found=%v err=%v", found, err)
	}

	next := startCycle(t, env, "Q1")
	cycles, err := env.svc.ListCycles(ctx)
	if err != nil {
		t.Fatalf("ListCycles() error = %v", err)
	}
	if len(cycles) != 2 || cycles[0].ID != next || cycles[1].ID != cycleID {
		t.Fatalf("ListCycles() order = %+v", cycles)
	}
}

func TestConcurrentStartsOnlyOneWins(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = env.svc.StartCycle(ctx, StartCycleInput{Title: "race", CreatedBy: "admin"})
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case !errs.IsKind(err, errs.KindInvalidState):
			t.Fatalf("StartCycle() unexpected error = %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("successful starts = %d, want 1", wins)
	}

	cycles, err := env.svc.ListCycles(ctx)
	if err != nil {
		t.Fatalf("ListCycles() error = %v", err)
	}
	active := 0
	for _, cycle := range cycles {
		if cycle.IsActive() {
			active++
		}
	}
	if active != 1 || len(cycles) != 1 {
		t.Fatalf("cycles = %d, active = %d, want 1/1", len(cycles), active)
	}
}
