package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/infrastructure/persistence/sqlite/model"
	"assetverify/internal/ports"
)

type CycleRepository struct {
	db *gorm.DB
}

var _ ports.CycleRepository = (*CycleRepository)(nil)

func NewCycleRepository(db *gorm.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

func (r *CycleRepository) CreateCycle(ctx context.Context, cycle verification.Cycle) (verification.Cycle, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return verification.Cycle{}, err
	}

	row := model.VerificationCycle{
		Title:     cycle.Title,
		Notes:     cycle.Notes,
		Status:    string(cycle.Status),
		StartDate: formatTime(cycle.StartDate),
		EndDate:   formatTimePtr(cycle.EndDate),
		CreatedBy: cycle.CreatedBy,
		ClosedBy:  cycle.ClosedBy,
	}
	if err := db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return verification.Cycle{}, errs.Wrap(ports.ErrActiveCycleConflict, "insert verification cycle")
		}
		return verification.Cycle{}, errs.Wrap(err, "insert verification cycle")
	}
	return mapCycle(row)
}

func (r *CycleRepository) GetCycle(ctx context.Context, cycleID uint64) (verification.Cycle, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return verification.Cycle{}, err
	}

	var row model.VerificationCycle
	if err := db.Where("id = ?", cycleID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return verification.Cycle{}, ports.ErrCycleNotFound
		}
		return verification.Cycle{}, errs.Wrap(err, "query verification cycle")
	}
	return mapCycle(row)
}

func (r *CycleRepository) GetActiveCycle(ctx context.Context) (verification.Cycle, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return verification.Cycle{}, false, err
	}
	return takeCycle(db.Where("status = ?", string(verification.CycleActive)), "query active verification cycle")
}

func (r *CycleRepository) LatestCycle(ctx context.Context) (verification.Cycle, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return verification.Cycle{}, false, err
	}
	return takeCycle(db.Order("start_date desc").Order("id desc"), "query latest verification cycle")
}

func (r *CycleRepository) ListCycles(ctx context.Context) ([]verification.Cycle, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.VerificationCycle
	if err := db.Order("start_date desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query verification cycles")
	}

	cycles := make([]verification.Cycle, 0, len(rows))
	for _, row := range rows {
		cycle, err := mapCycle(row)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, nil
}

func (r *CycleRepository) CloseCycle(ctx context.Context, cycleID uint64, closedBy string, closedAt time.Time) (bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return false, err
	}

	result := db.Model(&model.VerificationCycle{}).
		Where("id = ? AND status = ?", cycleID, string(verification.CycleActive)).
		Updates(map[string]any{
			"status":    string(verification.CycleClosed),
			"end_date":  formatTime(closedAt),
			"closed_by": closedBy,
		})
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "close verification cycle")
	}
	return result.RowsAffected > 0, nil
}

func (r *CycleRepository) TouchActiveCycle(ctx context.Context, cycleID uint64, at time.Time) (bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return false, err
	}

	result := db.Model(&model.VerificationCycle{}).
		Where("id = ? AND status = ?", cycleID, string(verification.CycleActive)).
		Update("last_submission_at", formatTime(at))
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "touch verification cycle")
	}
	return result.RowsAffected > 0, nil
}

func takeCycle(query *gorm.DB, op string) (verification.Cycle, bool, error) {
	var rows []model.VerificationCycle
	result := query.Limit(1).Find(&rows)
	if result.Error != nil {
		return verification.Cycle{}, false, errs.Wrap(result.Error, op)
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return verification.Cycle{}, false, nil
	}
	cycle, err := mapCycle(rows[0])
	if err != nil {
		return verification.Cycle{}, false, err
	}
	return cycle, true, nil
}

func mapCycle(row model.VerificationCycle) (verification.Cycle, error) {
	status, err := verification.ParseCycleStatus(row.Status)
	if err != nil {
		return verification.Cycle{}, errs.Wrapf(err, "map cycle %d", row.ID)
	}
	startDate, err := parseTime(row.StartDate)
	if err != nil {
		return verification.Cycle{}, err
	}
	endDate, err := parseTimePtr(row.EndDate)
	if err != nil {
		return verification.Cycle{}, err
	}

	return verification.Cycle{
		ID:        row.ID,
		Title:     row.Title,
		Notes:     row.Notes,
		Status:    status,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedBy: row.CreatedBy,
		ClosedBy:  row.ClosedBy,
	}, nil
}
