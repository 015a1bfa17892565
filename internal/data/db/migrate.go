package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pembrokehq/reflect-backend/internal/domain/pd"
)

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&pd.Agenda{},
		&pd.Session{},
		&pd.Report{},
	)
}

// EnsureIndexes creates the lookup indexes the pipeline reads depend on.
// Safe to re-run.
func EnsureIndexes(gdb *gorm.DB) error {
	if err := gdb.Exec(`CREATE INDEX IF NOT EXISTS idx_session_agenda_id ON session(agenda_id);`).Error; err != nil {
		return fmt.Errorf("create idx_session_agenda_id: %w", err)
	}
	if err := gdb.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_report_session_id ON report(session_id);`).Error; err != nil {
		return fmt.Errorf("create idx_report_session_id: %w", err)
	}
	return nil
}
