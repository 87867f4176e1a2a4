package model

// SingleActiveCycleIndexSQL enforces at most one active cycle at the storage layer.
const SingleActiveCycleIndexSQL = "CREATE UNIQUE INDEX IF NOT EXISTS idx_verification_cycles_single_active " +
	"ON verification_cycles(status) WHERE status = 'active'"

type VerificationCycle struct {
	ID               uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	Title            string  `gorm:"column:title;type:text;not null"`
	Notes            string  `gorm:"column:notes;type:text;not null;default:''"`
	Status           string  `gorm:"column:status;type:text;not null;index"`
	StartDate        string  `gorm:"column:start_date;type:text;not null;index"`
	EndDate          *string `gorm:"column:end_date;type:text"`
	CreatedBy        string  `gorm:"column:created_by;type:text;not null"`
	ClosedBy         string  `gorm:"column:closed_by;type:text;not null;default:''"`
	LastSubmissionAt *string `gorm:"column:last_submission_at;type:text"`
}

func (VerificationCycle) TableName() string {
	return "verification_cycles"
}
