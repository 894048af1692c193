package service

import (
	"encoding/csv"
	"strings"
	"testing"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite"
	"binregistry/cmd/internal/domain/sqlite/repository"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type fakeStorage struct {
	uploaded []byte
	filename string
}

func (f *fakeStorage) UploadFile(data []byte, filename string) (string, error) {
	f.uploaded = data
	f.filename = filename
	return "exports/" + filename, nil
}

type ExportServiceSuite struct {
	suite.Suite
	db          *gorm.DB
	classifiers *repository.DefaultClassifierRepository
	storage     *fakeStorage
	service     *DefaultExportService
}

func (s *ExportServiceSuite) SetupTest() {
	db, err := sqlite.Open(":memory:")
	s.Require().NoError(err)
	s.db = db
	s.classifiers = repository.NewClassifierRepository(db)
	s.storage = &fakeStorage{}
	s.service = NewExportService(
		repository.NewCompanyRepository(db),
		s.classifiers,
		repository.NewProgramRepository(db),
		s.storage,
		validator.New(),
	)
}

func TestExportServiceSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceSuite))
}

func (s *ExportServiceSuite) seed() *entity.ClassifierNode {
	region, _, err := s.classifiers.Upsert(entity.TaxonomyTerritory, "710000000", "North region", "")
	s.Require().NoError(err)
	city, _, err := s.classifiers.Upsert(entity.TaxonomyTerritory, "711000000", "North city", "710000000")
	s.Require().NoError(err)
	dairy, _, err := s.classifiers.Upsert(entity.TaxonomyProductCategory, "0401", "Dairy", "")
	s.Require().NoError(err)

	company := &entity.Company{
		BIN:         "111111111111",
		NameRu:      "Agro North",
		TerritoryID: &city.ID,
	}
	s.Require().NoError(s.db.Create(company).Error)
	s.Require().NoError(s.db.Model(company).Association("Products").Append(dairy))

	contact := &entity.CompanyContact{
		CompanyID: company.ID,
		FullName:  "Aigul Bekova",
		Position:  "Sales director",
	}
	s.Require().NoError(s.db.Create(contact).Error)
	s.Require().NoError(s.db.Create(&entity.ContactEmail{
		ContactID: contact.ID,
		Email:     "aigul@agro.kz",
		IsPrimary: true,
	}).Error)
	s.Require().NoError(s.db.Create(&entity.ContactPhone{
		ContactID: contact.ID,
		Phone:     "+7 777 111 22 33",
	}).Error)

	return region
}

func (s *ExportServiceSuite) parseCSV() [][]string {
	r := csv.NewReader(strings.NewReader(string(s.storage.uploaded)))
	// The title line has a single column, data rows have four.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	s.Require().NoError(err)
	return records
}

func (s *ExportServiceSuite) TestUnfilteredExport() {
	s.seed()

	resp, apierr := s.service.ExportCompanies(nil)
	s.Require().Nil(apierr)
	s.Equal(1, resp.Rows)
	s.Equal("exports/"+s.storage.filename, resp.Key)
	s.True(strings.HasSuffix(s.storage.filename, ".csv"))

	records := s.parseCSV()
	s.Require().Len(records, 3)
	s.Equal("This list contains all companies, no filters applied.", records[0][0])
	s.Equal([]string{"Name", "Region", "Products", "Contacts"}, records[1])

	row := records[2]
	s.Equal("Agro North", row[0])
	// The company sits in a city node; the region column resolves the
	// region-level ancestor by zeroing the code tail.
	s.Equal("North region", row[1])
	s.Equal("Dairy", row[2])
	s.Equal("Aigul Bekova (Sales director): aigul@agro.kz, +7 777 111 22 33", row[3])
}

func (s *ExportServiceSuite) TestFilteredExportTitleNamesSelections() {
	region := s.seed()

	resp, apierr := s.service.ExportCompanies(&contract.CompanyFilterRequest{
		TerritoryID: &region.ID,
	})
	s.Require().Nil(apierr)
	s.Equal(1, resp.Rows)

	records := s.parseCSV()
	s.Equal(
		"This list contains companies selected by the following parameters: North region.",
		records[0][0],
	)
}

func (s *ExportServiceSuite) TestEmptyResultStillUploads() {
	s.seed()

	stale := uint(9999)
	resp, apierr := s.service.ExportCompanies(&contract.CompanyFilterRequest{
		SizeClassID: &stale,
		Search:      "nothing matches this",
	})
	s.Require().Nil(apierr)
	s.Zero(resp.Rows)

	records := s.parseCSV()
	s.Len(records, 2)
}
