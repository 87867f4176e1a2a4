package model

// Snapshot tables hold the last imported collaborator data.

type SnapshotAsset struct {
	Tag                string  `gorm:"column:tag;type:text;primaryKey"`
	Name               string  `gorm:"column:name;type:text;not null"`
	Type               string  `gorm:"column:type;type:text;not null;default:''"`
	SerialNumber       string  `gorm:"column:serial_number;type:text;not null;default:''"`
	AssignedEmployeeID string  `gorm:"column:assigned_employee_id;type:text;not null;default:'';index"`
	WarrantyExpiry     *string `gorm:"column:warranty_expiry;type:text"`
	Status             string  `gorm:"column:status;type:text;not null;default:''"`
}

func (SnapshotAsset) TableName() string {
	return "snapshot_assets"
}

type SnapshotEmployee struct {
	EmpID      string `gorm:"column:emp_id;type:text;primaryKey"`
	FullName   string `gorm:"column:full_name;type:text;not null"`
	Department string `gorm:"column:department;type:text;not null;default:''"`
	IsActive   bool   `gorm:"column:is_active;not null"`
}

func (SnapshotEmployee) TableName() string {
	return "snapshot_employees"
}

type SnapshotLicense struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	SoftwareName string  `gorm:"column:software_name;type:text;not null;index"`
	SeatsLimit   int     `gorm:"column:seats_limit;not null;default:0"`
	UsedSeats    int     `gorm:"column:used_seats;not null;default:0"`
	ExpiryDate   *string `gorm:"column:expiry_date;type:text"`
}

func (SnapshotLicense) TableName() string {
	return "snapshot_licenses"
}

type SnapshotDesk struct {
	DeskID string `gorm:"column:desk_id;type:text;primaryKey"`
	Floor  string `gorm:"column:floor;type:text;not null;default:''"`
	Status string `gorm:"column:status;type:text;not null"`
}

func (SnapshotDesk) TableName() string {
	return "snapshot_desks"
}
