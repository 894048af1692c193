package repository

import (
	"database/sql"

	"binregistry/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type seriesRow interface {
	entity.TaxMetric | entity.VatMetric | entity.SupplierMetric | entity.CustomerMetric
}

type DefaultMetricRepository struct {
	db *gorm.DB
}

func NewMetricRepository(db *gorm.DB) *DefaultMetricRepository {
	return &DefaultMetricRepository{db: db}
}

func (r *DefaultMetricRepository) AppendTaxes(companyID uint, points []entity.MetricPoint) error {
	return appendNewer(r.db, companyID, points, func(p entity.MetricPoint) entity.TaxMetric {
		return entity.TaxMetric{CompanyID: companyID, Year: p.Year, Value: p.Value}
	})
}

func (r *DefaultMetricRepository) AppendVat(companyID uint, points []entity.MetricPoint) error {
	return appendNewer(r.db, companyID, points, func(p entity.MetricPoint) entity.VatMetric {
		return entity.VatMetric{CompanyID: companyID, Year: p.Year, Value: p.Value}
	})
}

func (r *DefaultMetricRepository) AppendSupplierVolumes(companyID uint, points []entity.MetricPoint) error {
	return appendNewer(r.db, companyID, points, func(p entity.MetricPoint) entity.SupplierMetric {
		return entity.SupplierMetric{CompanyID: companyID, Year: p.Year, Value: p.Value}
	})
}

func (r *DefaultMetricRepository) AppendCustomerVolumes(companyID uint, points []entity.MetricPoint) error {
	return appendNewer(r.db, companyID, points, func(p entity.MetricPoint) entity.CustomerMetric {
		return entity.CustomerMetric{CompanyID: companyID, Year: p.Year, Value: p.Value}
	})
}

// appendNewer inserts only points whose year is strictly greater than the
// stored maximum for the company and series. Existing years are never
// updated or deduplicated, which makes repeated loads of the same snapshot
// idempotent.
func appendNewer[T seriesRow](db *gorm.DB, companyID uint, points []entity.MetricPoint, build func(entity.MetricPoint) T) error {
	var last sql.NullInt64
	err := db.
		Model(new(T)).
		Where("company_id = ?", companyID).
		Select("MAX(year)").
		Scan(&last).Error
	if err != nil {
		return err
	}

	var rows []T
	for _, p := range points {
		if int64(p.Year) > last.Int64 {
			rows = append(rows, build(p))
		}
	}

	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}
