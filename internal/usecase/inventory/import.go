// Package inventory loads collaborator snapshots (assets, employees, licenses,
// desks) from TOML or YAML documents into the local snapshot store.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/domain/inventory"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errs.Validation("unsupported snapshot file extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

type document struct {
	Assets    []assetDoc    `toml:"assets" yaml:"assets" validate:"dive"`
	Employees []employeeDoc `toml:"employees" yaml:"employees" validate:"dive"`
	Licenses  []licenseDoc  `toml:"licenses" yaml:"licenses" validate:"dive"`
	Desks     []deskDoc     `toml:"desks" yaml:"desks" validate:"dive"`
}

type assetDoc struct {
	Tag            string `toml:"tag" yaml:"tag" validate:"required"`
	Name           string `toml:"name" yaml:"name" validate:"required"`
	Type           string `toml:"type" yaml:"type"`
	SerialNumber   string `toml:"serial_number" yaml:"serial_number"`
	AssignedTo     string `toml:"assigned_to" yaml:"assigned_to"`
	WarrantyExpiry string `toml:"warranty_expiry" yaml:"warranty_expiry"`
	Status         string `toml:"status" yaml:"status"`
}

type employeeDoc struct {
	EmpID      string `toml:"emp_id" yaml:"emp_id" validate:"required"`
	FullName   string `toml:"full_name" yaml:"full_name" validate:"required"`
	Department string `toml:"department" yaml:"department"`
	IsActive   *bool  `toml:"is_active" yaml:"is_active"`
}

type licenseDoc struct {
	SoftwareName string `toml:"software_name" yaml:"software_name" validate:"required"`
	SeatsLimit   int    `toml:"seats_limit" yaml:"seats_limit" validate:"gte=0"`
	UsedSeats    int    `toml:"used_seats" yaml:"used_seats" validate:"gte=0"`
	ExpiryDate   string `toml:"expiry_date" yaml:"expiry_date"`
}

type deskDoc struct {
	DeskID string `toml:"desk_id" yaml:"desk_id" validate:"required"`
	Floor  string `toml:"floor" yaml:"floor"`
	Status string `toml:"status" yaml:"status" validate:"required,oneof=occupied available"`
}

// Result counts what an import wrote.
type Result struct {
	Assets    int
	Employees int
	Licenses  int
	Desks     int
}

type Importer struct {
	writer   ports.SnapshotWriter
	validate *validator.Validate
}

func NewImporter(writer ports.SnapshotWriter) *Importer {
	return &Importer{
		writer:   writer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ImportFile decodes path and replaces the stored snapshot with its contents.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Result{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errs.Wrapf(err, "read snapshot file %s", path)
	}
	return i.Import(ctx, format, raw)
}

func (i *Importer) Import(ctx context.Context, format Format, raw []byte) (Result, error) {
	if i == nil || i.writer == nil {
		return Result{}, errors.New("snapshot importer is not configured")
	}

	snapshot, err := i.Decode(format, raw)
	if err != nil {
		return Result{}, err
	}
	if err := i.writer.ReplaceSnapshot(ctx, snapshot); err != nil {
		return Result{}, errs.Wrap(err, "replace snapshot")
	}

	result := Result{
		Assets:    len(snapshot.Assets),
		Employees: len(snapshot.Employees),
		Licenses:  len(snapshot.Licenses),
		Desks:     len(snapshot.Desks),
	}
	logging.Info(ctx, "snapshot imported",
		slog.String("format", string(format)),
		slog.Int("assets", result.Assets),
		slog.Int("employees", result.Employees),
		slog.Int("licenses", result.Licenses),
		slog.Int("desks", result.Desks),
	)
	return result, nil
}

// Decode parses and validates a snapshot document without storing it.
func (i *Importer) Decode(format Format, raw []byte) (inventory.Snapshot, error) {
	var doc document
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return inventory.Snapshot{}, errs.E(errs.KindValidation, err, "parse toml snapshot: %v", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return inventory.Snapshot{}, errs.E(errs.KindValidation, err, "parse yaml snapshot: %v", err)
		}
	default:
		return inventory.Snapshot{}, errs.Validation("unsupported snapshot format %q", format)
	}

	normalize(&doc)
	if err := i.validate.Struct(doc); err != nil {
		return inventory.Snapshot{}, validationError(err)
	}
	return toSnapshot(doc)
}

func normalize(doc *document) {
	for idx := range doc.Assets {
		a := &doc.Assets[idx]
		a.Tag = strings.TrimSpace(a.Tag)
		a.Name = strings.TrimSpace(a.Name)
		a.Type = strings.TrimSpace(a.Type)
		a.AssignedTo = strings.TrimSpace(a.AssignedTo)
		a.Status = strings.ToLower(strings.TrimSpace(a.Status))
	}
	for idx := range doc.Employees {
		e := &doc.Employees[idx]
		e.EmpID = strings.TrimSpace(e.EmpID)
		e.FullName = strings.TrimSpace(e.FullName)
		e.Department = strings.TrimSpace(e.Department)
	}
	for idx := range doc.Licenses {
		doc.Licenses[idx].SoftwareName = strings.TrimSpace(doc.Licenses[idx].SoftwareName)
	}
	for idx := range doc.Desks {
		d := &doc.Desks[idx]
		d.DeskID = strings.TrimSpace(d.DeskID)
		d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	}
}

func toSnapshot(doc document) (inventory.Snapshot, error) {
	var snapshot inventory.Snapshot

	tags := make(map[string]struct{}, len(doc.Assets))
	for _, a := range doc.Assets {
		key := strings.ToUpper(a.Tag)
		if _, dup := tags[key]; dup {
			return inventory.Snapshot{}, errs.Validation("duplicate asset tag %q", a.Tag)
		}
		tags[key] = struct{}{}

		expiry, err := parseDate(a.WarrantyExpiry)
		if err != nil {
			return inventory.Snapshot{}, errs.E(errs.KindValidation, err, "asset %s: invalid warranty_expiry %q", a.Tag, a.WarrantyExpiry)
		}
		snapshot.Assets = append(snapshot.Assets, inventory.Asset{
			Tag:                a.Tag,
			Name:               a.Name,
			Type:               a.Type,
			SerialNumber:       strings.TrimSpace(a.SerialNumber),
			AssignedEmployeeID: a.AssignedTo,
			WarrantyExpiry:     expiry,
			Status:             a.Status,
		})
	}

	ids := make(map[string]struct{}, len(doc.Employees))
	for _, e := range doc.Employees {
		if _, dup := ids[e.EmpID]; dup {
			return inventory.Snapshot{}, errs.Validation("duplicate employee id %q", e.EmpID)
		}
		ids[e.EmpID] = struct{}{}

		active := true
		if e.IsActive != nil {
			active = *e.IsActive
		}
		snapshot.Employees = append(snapshot.Employees, inventory.Employee{
			EmpID:      e.EmpID,
			FullName:   e.FullName,
			Department: e.Department,
			IsActive:   active,
		})
	}

	for _, l := range doc.Licenses {
		expiry, err := parseDate(l.ExpiryDate)
		if err != nil {
			return inventory.Snapshot{}, errs.E(errs.KindValidation, err, "license %s: invalid expiry_date %q", l.SoftwareName, l.ExpiryDate)
		}
		snapshot.Licenses = append(snapshot.Licenses, inventory.License{
			SoftwareName: l.SoftwareName,
			SeatsLimit:   l.SeatsLimit,
			UsedSeats:    l.UsedSeats,
			ExpiryDate:   expiry,
		})
	}

	desks := make(map[string]struct{}, len(doc.Desks))
	for _, d := range doc.Desks {
		if _, dup := desks[d.DeskID]; dup {
			return inventory.Snapshot{}, errs.Validation("duplicate desk id %q", d.DeskID)
		}
		desks[d.DeskID] = struct{}{}
		snapshot.Desks = append(snapshot.Desks, inventory.Desk{
			DeskID: d.DeskID,
			Floor:  strings.TrimSpace(d.Floor),
			Status: d.Status,
		})
	}

	return snapshot, nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp; blank means none.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("want YYYY-MM-DD or RFC3339, got %q", raw)
}

func validationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return errs.E(errs.KindValidation, err, "invalid snapshot: %v", err)
	}
	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", field.Namespace(), field.Tag()))
	}
	return errs.E(errs.KindValidation, err, "invalid snapshot: %s", strings.Join(msgs, "; "))
}
