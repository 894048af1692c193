package service

import (
	"net/http"
	"testing"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite"
	"binregistry/cmd/internal/domain/sqlite/repository"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CompanyServiceSuite struct {
	suite.Suite
	db          *gorm.DB
	classifiers *repository.DefaultClassifierRepository
	service     *DefaultCompanyService
}

func (s *CompanyServiceSuite) SetupTest() {
	db, err := sqlite.Open(":memory:")
	s.Require().NoError(err)
	s.db = db
	s.classifiers = repository.NewClassifierRepository(db)
	s.service = NewCompanyService(
		repository.NewCompanyRepository(db),
		s.classifiers,
		repository.NewProgramRepository(db),
		validator.New(),
	)
}

func TestCompanyServiceSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceSuite))
}

func (s *CompanyServiceSuite) seed() {
	territory, _, err := s.classifiers.Upsert(entity.TaxonomyTerritory, "710000000", "North region", "")
	s.Require().NoError(err)
	activity, _, err := s.classifiers.Upsert(entity.TaxonomyActivity, "01.1", "Crops", "")
	s.Require().NoError(err)

	company := &entity.Company{
		BIN:               "111111111111",
		NameRu:            "Agro North",
		NameKz:            "Агро Солтүстік",
		TerritoryID:       &territory.ID,
		PrimaryActivityID: &activity.ID,
	}
	s.Require().NoError(s.db.Create(company).Error)

	s.Require().NoError(s.db.Create(&entity.TaxMetric{
		CompanyID: company.ID,
		Year:      2022,
		Value:     1500,
	}).Error)

	contact := &entity.CompanyContact{CompanyID: company.ID, FullName: "Aigul Bekova"}
	s.Require().NoError(s.db.Create(contact).Error)
	s.Require().NoError(s.db.Create(&entity.ContactEmail{
		ContactID: contact.ID,
		Email:     "aigul@agro.kz",
		IsPrimary: true,
	}).Error)
}

func (s *CompanyServiceSuite) TestGetCompanyByBIN() {
	s.seed()

	resp, apierr := s.service.GetCompanyByBIN("111111111111")
	s.Require().Nil(apierr)
	s.Equal("Agro North", resp.NameRu)
	s.Require().NotNil(resp.Territory)
	s.Equal("North region", resp.Territory.Name)
	s.Require().NotNil(resp.PrimaryActivity)
	s.Equal("01.1", resp.PrimaryActivity.Code)

	s.Require().Len(resp.Taxes, 1)
	s.Equal(2022, resp.Taxes[0].Year)

	s.Require().Len(resp.Contacts, 1)
	s.Require().Len(resp.Contacts[0].Emails, 1)
	s.True(resp.Contacts[0].Emails[0].IsPrimary)
}

func (s *CompanyServiceSuite) TestGetCompanyByBINNotFound() {
	_, apierr := s.service.GetCompanyByBIN("000000000000")
	s.Require().NotNil(apierr)
	s.Equal(http.StatusNotFound, apierr.Code())
}

func (s *CompanyServiceSuite) TestListCompaniesSummaries() {
	s.seed()

	summaries, apierr := s.service.ListCompanies(nil)
	s.Require().Nil(apierr)
	s.Require().Len(summaries, 1)
	s.Equal("Agro North", summaries[0].NameRu)
	s.Equal("North region", summaries[0].Territory)
	s.Equal("Crops", summaries[0].Activity)
}

func (s *CompanyServiceSuite) TestListCompaniesFilterByIndustry() {
	s.seed()

	sector, _, err := s.classifiers.Upsert(entity.TaxonomyIndustry, "FOOD", "Food industry", "")
	s.Require().NoError(err)
	branch, _, err := s.classifiers.Upsert(entity.TaxonomyIndustry, "FOOD-DAIRY", "Dairy processing", "FOOD")
	s.Require().NoError(err)

	s.Require().NoError(s.db.
		Model(&entity.Company{}).
		Where("bin = ?", "111111111111").
		Update("industry_id", branch.ID).Error)

	summaries, apierr := s.service.ListCompanies(&contract.CompanyFilterRequest{
		IndustryID: &sector.ID,
	})
	s.Require().Nil(apierr)
	s.Require().Len(summaries, 1)
	s.Equal("Agro North", summaries[0].NameRu)
}

func (s *CompanyServiceSuite) TestListCompaniesStaleAxisDropped() {
	s.seed()

	// A filter pointing at a node that no longer exists must not hide
	// everything; the axis is simply skipped.
	stale := uint(9999)
	summaries, apierr := s.service.ListCompanies(&contract.CompanyFilterRequest{
		TerritoryID: &stale,
	})
	s.Require().Nil(apierr)
	s.Len(summaries, 1)
}

func (s *CompanyServiceSuite) TestListCompaniesWrongTaxonomySelectionDropped() {
	s.seed()

	// The activity node cannot serve as a territory filter.
	activity, err := s.classifiers.FindByCode(entity.TaxonomyActivity, "01.1")
	s.Require().NoError(err)

	summaries, apierr := s.service.ListCompanies(&contract.CompanyFilterRequest{
		TerritoryID: &activity.ID,
	})
	s.Require().Nil(apierr)
	s.Len(summaries, 1)
}

func (s *CompanyServiceSuite) TestListCompaniesSearchTooLong() {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}

	_, apierr := s.service.ListCompanies(&contract.CompanyFilterRequest{Search: string(long)})
	s.Require().NotNil(apierr)
	s.Equal(http.StatusBadRequest, apierr.Code())
}
