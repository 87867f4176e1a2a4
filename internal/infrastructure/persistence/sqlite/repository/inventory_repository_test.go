package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetverify/internal/domain/inventory"
	"assetverify/internal/ports"
)

func TestInventoryRepositoryReplaceSnapshot(t *testing.T) {
	repo := NewInventoryRepository(setupDB(t))
	ctx := context.Background()
	expiry := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)

	first := inventory.Snapshot{
		Assets: []inventory.Asset{
			{Tag: "MON-1", Name: "Dell U27", Type: "Monitor", AssignedEmployeeID: "E001", Status: "in_use"},
			{Tag: "LAP-1", Name: "ThinkPad", Type: "Laptop", AssignedEmployeeID: "E001", WarrantyExpiry: &expiry, Status: "in_use"},
			{Tag: "LAP-2", Name: "MacBook", Type: "Laptop", Status: "in_stock"},
		},
		Employees: []inventory.Employee{
			{EmpID: "E001", FullName: "Ada Lovelace", Department: "Engineering", IsActive: true},
			{EmpID: "E002", FullName: "Alan Turing", Department: "Research", IsActive: false},
		},
		Licenses: []inventory.License{{SoftwareName: "Zoom", SeatsLimit: 10, UsedSeats: 4, ExpiryDate: &expiry}},
		Desks:    []inventory.Desk{{DeskID: "D-1", Floor: "1", Status: inventory.DeskOccupied}},
	}
	if err := repo.ReplaceSnapshot(ctx, first); err != nil {
		t.Fatalf("ReplaceSnapshot() error = %v", err)
	}

	assigned, err := repo.ListAssetsByAssignee(ctx, "E001")
	if err != nil {
		t.Fatalf("ListAssetsByAssignee() error = %v", err)
	}
	if len(assigned) != 2 || assigned[0].Tag != "LAP-1" || assigned[1].Tag != "MON-1" {
		t.Fatalf("ListAssetsByAssignee() = %+v", assigned)
	}
	if assigned[0].WarrantyExpiry == nil || !assigned[0].WarrantyExpiry.Equal(expiry) {
		t.Fatalf("warranty expiry = %v", assigned[0].WarrantyExpiry)
	}

	employee, err := repo.GetEmployee(ctx, "E002")
	if err != nil {
		t.Fatalf("GetEmployee() error = %v", err)
	}
	if employee.IsActive {
		t.Fatalf("GetEmployee() IsActive = true, want false")
	}

	second := inventory.Snapshot{
		Assets: []inventory.Asset{{Tag: "PHN-1", Name: "Pixel", Type: "Phone", AssignedEmployeeID: "E003", Status: "in_use"}},
	}
	if err := repo.ReplaceSnapshot(ctx, second); err != nil {
		t.Fatalf("ReplaceSnapshot(second) error = %v", err)
	}

	assets, err := repo.ListAssets(ctx)
	if err != nil || len(assets) != 1 || assets[0].Tag != "PHN-1" {
		t.Fatalf("ListAssets() after replace = %+v err = %v", assets, err)
	}
	if _, err := repo.GetAsset(ctx, "LAP-1"); !errors.Is(err, ports.ErrAssetNotFound) {
		t.Fatalf("GetAsset(replaced) error = %v", err)
	}
	if _, err := repo.GetEmployee(ctx, "E001"); !errors.Is(err, ports.ErrEmployeeNotFound) {
		t.Fatalf("GetEmployee(replaced) error = %v", err)
	}
	licenses, err := repo.ListLicenses(ctx)
	if err != nil || len(licenses) != 0 {
		t.Fatalf("ListLicenses() after replace = %+v err = %v", licenses, err)
	}
	desks, err := repo.ListDesks(ctx)
	if err != nil || len(desks) != 0 {
		t.Fatalf("ListDesks() after replace = %+v err = %v", desks, err)
	}
}
