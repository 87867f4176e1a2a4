// Package inventory holds the read-only snapshots the engine consumes from the
// asset-inventory, employee-directory, license and workspace collaborators.
package inventory

import "time"

type Asset struct {
	Tag                string
	Name               string
	Type               string
	SerialNumber       string
	AssignedEmployeeID string
	WarrantyExpiry     *time.Time
	Status             string
}

func (a Asset) IsAssigned() bool {
	return a.AssignedEmployeeID != ""
}

type Employee struct {
	EmpID      string
	FullName   string
	Department string
	IsActive   bool
}

type License struct {
	SoftwareName string
	SeatsLimit   int
	UsedSeats    int
	ExpiryDate   *time.Time
}

const (
	DeskOccupied  = "occupied"
	DeskAvailable = "available"
)

type Desk struct {
	DeskID string
	Floor  string
	Status string
}

// Snapshot is one full import of collaborator data.
type Snapshot struct {
	Assets    []Asset
	Employees []Employee
	Licenses  []License
	Desks     []Desk
}

const (
	UnknownAssetName    = "Unknown asset"
	UnknownEmployeeName = "Unknown employee"
)

// PlaceholderAsset renders an asset referenced by a record but missing from inventory.
func PlaceholderAsset(tag string) Asset {
	return Asset{Tag: tag, Name: UnknownAssetName, Type: "-", Status: "-"}
}

// PlaceholderEmployee renders an assignee missing from the directory.
func PlaceholderEmployee(empID string) Employee {
	return Employee{EmpID: empID, FullName: UnknownEmployeeName, Department: "-"}
}
