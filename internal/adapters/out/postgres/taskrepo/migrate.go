package taskrepo

import "gorm.io/gorm"

// Migrate creates the task table and the partial unique index that collapses
// duplicate pending schedules.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ScheduledTaskDTO{}); err != nil {
		return err
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_scheduled_tasks_pending_dedupe
		ON scheduled_tasks (name, dedupe_key)
		WHERE state = 'pending'
	`).Error
}
