package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/justsurfingit/job-board/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by dsn and runs the migrations. DSNs that
// start with "sqlite:" open an SQLite file (or memory) database, anything else
// is handed to the Postgres driver.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		// Unique-index violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		dialector = sqlite.Open(withForeignKeys(path))
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenMemory returns a migrated private in-memory SQLite database. name must
// be unique per caller; tests pass t.Name().
func OpenMemory(name string) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return Connect(fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", name))
}

// Migrate creates or updates the tables, indexes and the users->jobs cascade.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Job{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SQLite only enforces ON DELETE CASCADE with the foreign_keys pragma on.
func withForeignKeys(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}
