package repository

import (
	"testing"

	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MetricRepositorySuite struct {
	suite.Suite
	db      *gorm.DB
	repo    *DefaultMetricRepository
	company *entity.Company
}

func (s *MetricRepositorySuite) SetupTest() {
	db, err := sqlite.Open(":memory:")
	s.Require().NoError(err)
	s.db = db
	s.repo = NewMetricRepository(db)

	s.company = &entity.Company{BIN: "123456789012"}
	s.Require().NoError(db.Create(s.company).Error)
}

func TestMetricRepositorySuite(t *testing.T) {
	suite.Run(t, new(MetricRepositorySuite))
}

func (s *MetricRepositorySuite) taxYears() []int {
	var years []int
	s.Require().NoError(s.db.
		Model(&entity.TaxMetric{}).
		Where("company_id = ?", s.company.ID).
		Order("year").
		Pluck("year", &years).Error)
	return years
}

func (s *MetricRepositorySuite) TestAppendIntoEmptySeries() {
	points := []entity.MetricPoint{{Year: 2021, Value: 100}, {Year: 2022, Value: 200}}
	s.Require().NoError(s.repo.AppendTaxes(s.company.ID, points))
	s.Equal([]int{2021, 2022}, s.taxYears())
}

func (s *MetricRepositorySuite) TestAppendOnlyNewerYears() {
	s.Require().NoError(s.repo.AppendTaxes(s.company.ID, []entity.MetricPoint{
		{Year: 2021, Value: 100},
		{Year: 2022, Value: 200},
	}))

	// The snapshot repeats known years with different values and reaches
	// back before the stored range. Only 2023 may land.
	s.Require().NoError(s.repo.AppendTaxes(s.company.ID, []entity.MetricPoint{
		{Year: 2020, Value: 50},
		{Year: 2022, Value: 999},
		{Year: 2023, Value: 300},
	}))

	s.Equal([]int{2021, 2022, 2023}, s.taxYears())

	var kept entity.TaxMetric
	s.Require().NoError(s.db.
		Where("company_id = ? AND year = ?", s.company.ID, 2022).
		First(&kept).Error)
	s.Equal(200.0, kept.Value)
}

func (s *MetricRepositorySuite) TestRepeatedLoadIsIdempotent() {
	points := []entity.MetricPoint{{Year: 2021, Value: 100}, {Year: 2022, Value: 200}}
	s.Require().NoError(s.repo.AppendVat(s.company.ID, points))
	s.Require().NoError(s.repo.AppendVat(s.company.ID, points))

	var count int64
	s.Require().NoError(s.db.
		Model(&entity.VatMetric{}).
		Where("company_id = ?", s.company.ID).
		Count(&count).Error)
	s.EqualValues(2, count)
}

func (s *MetricRepositorySuite) TestSeriesAreIndependent() {
	s.Require().NoError(s.repo.AppendTaxes(s.company.ID, []entity.MetricPoint{{Year: 2022, Value: 1}}))
	s.Require().NoError(s.repo.AppendSupplierVolumes(s.company.ID, []entity.MetricPoint{{Year: 2020, Value: 2}}))
	s.Require().NoError(s.repo.AppendCustomerVolumes(s.company.ID, []entity.MetricPoint{{Year: 2021, Value: 3}}))

	var supplier []entity.SupplierMetric
	s.Require().NoError(s.db.Where("company_id = ?", s.company.ID).Find(&supplier).Error)
	s.Len(supplier, 1)

	var customer []entity.CustomerMetric
	s.Require().NoError(s.db.Where("company_id = ?", s.company.ID).Find(&customer).Error)
	s.Len(customer, 1)
}

func (s *MetricRepositorySuite) TestPerCompanyIsolation() {
	other := &entity.Company{BIN: "999999999999"}
	s.Require().NoError(s.db.Create(other).Error)

	s.Require().NoError(s.repo.AppendTaxes(other.ID, []entity.MetricPoint{{Year: 2023, Value: 9}}))

	// The other company's 2023 row must not block this company's 2021.
	s.Require().NoError(s.repo.AppendTaxes(s.company.ID, []entity.MetricPoint{{Year: 2021, Value: 1}}))
	s.Equal([]int{2021}, s.taxYears())
}
