package sqlite

import (
	"path/filepath"
	"time"

	"binregistry/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Init() (*gorm.DB, error) {
	dbPath := filepath.Join(".", "registry.db")
	return Open(dbPath)
}

// Open connects to the given DSN and migrates the schema. Tests pass
// ":memory:" here.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.ClassifierNode{},
		&entity.Company{},
		&entity.CompanyContact{},
		&entity.ContactEmail{},
		&entity.ContactPhone{},
		&entity.TaxMetric{},
		&entity.VatMetric{},
		&entity.SupplierMetric{},
		&entity.CustomerMetric{},
		&entity.Program{},
		&entity.ProgramParticipation{},
	)
	if err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
