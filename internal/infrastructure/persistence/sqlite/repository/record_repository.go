package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/infrastructure/persistence/sqlite/model"
	"assetverify/internal/ports"
)

type RecordRepository struct {
	db *gorm.DB
}

var _ ports.RecordRepository = (*RecordRepository)(nil)

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) AppendRecord(ctx context.Context, record verification.Record) (verification.Record, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return verification.Record{}, err
	}

	row := model.VerificationRecord{
		CycleID:          record.CycleID,
		EmployeeID:       record.EmployeeID,
		AssetID:          record.AssetID,
		EnteredAssetID:   record.EnteredAssetID,
		Status:           string(record.Status),
		Notes:            record.Notes,
		VerificationDate: formatTimePtr(record.VerificationDate),
		IsMatch:          record.IsMatch,
	}
	if err := db.Create(&row).Error; err != nil {
		return verification.Record{}, errs.Wrap(err, "insert verification record")
	}
	return mapRecord(row)
}

func (r *RecordRepository) ListCycleRecords(ctx context.Context, cycleID uint64) ([]verification.Record, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return findRecords(db.Where("cycle_id = ?", cycleID))
}

func (r *RecordRepository) ListEmployeeRecords(ctx context.Context, employeeID string, cycleID uint64) ([]verification.Record, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Where("employee_id = ?", strings.TrimSpace(employeeID))
	if cycleID != 0 {
		query = query.Where("cycle_id = ?", cycleID)
	}
	return findRecords(query)
}

func findRecords(query *gorm.DB) ([]verification.Record, error) {
	var rows []model.VerificationRecord
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query verification records")
	}

	records := make([]verification.Record, 0, len(rows))
	for _, row := range rows {
		record, err := mapRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func mapRecord(row model.VerificationRecord) (verification.Record, error) {
	status, err := verification.ParseStatus(row.Status)
	if err != nil {
		return verification.Record{}, errs.Wrapf(err, "map verification record %d", row.ID)
	}
	date, err := parseTimePtr(row.VerificationDate)
	if err != nil {
		return verification.Record{}, err
	}

	return verification.Record{
		ID:               row.ID,
		CycleID:          row.CycleID,
		EmployeeID:       row.EmployeeID,
		AssetID:          row.AssetID,
		EnteredAssetID:   row.EnteredAssetID,
		Status:           status,
		Notes:            row.Notes,
		VerificationDate: date,
		IsMatch:          row.IsMatch,
	}, nil
}
