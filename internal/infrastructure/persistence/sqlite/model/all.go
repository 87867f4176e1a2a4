package model

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&VerificationCycle{},
		&VerificationRecord{},
		&SnapshotAsset{},
		&SnapshotEmployee{},
		&SnapshotLicense{},
		&SnapshotDesk{},
		&KV{},
	}
}
