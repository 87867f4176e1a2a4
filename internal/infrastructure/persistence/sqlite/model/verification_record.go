package model

type VerificationRecord struct {
	ID               uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	CycleID          uint64  `gorm:"column:cycle_id;not null;index:idx_verification_records_triple,priority:1"`
	EmployeeID       string  `gorm:"column:employee_id;type:text;not null;index:idx_verification_records_triple,priority:2"`
	AssetID          string  `gorm:"column:asset_id;type:text;not null;index:idx_verification_records_triple,priority:3"`
	EnteredAssetID   string  `gorm:"column:entered_asset_id;type:text;not null;default:''"`
	Status           string  `gorm:"column:status;type:text;not null"`
	Notes            string  `gorm:"column:notes;type:text;not null;default:''"`
	VerificationDate *string `gorm:"column:verification_date;type:text"`
	IsMatch          bool    `gorm:"column:is_match;not null;default:0"`
}

func (VerificationRecord) TableName() string {
	return "verification_records"
}
