package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite"
	"binregistry/cmd/internal/domain/sqlite/repository"
	"binregistry/cmd/internal/infrastructure/prgapp"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// fakeRegistry serves the two upstream documents from in-memory maps, so
// tests drive the loader through the real HTTP client and JSON mapping.
type fakeRegistry struct {
	info        map[string]any
	graph       map[string]any
	infoStatus  int
	graphStatus int
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/CompanyFullInfo":
		if f.infoStatus != 0 {
			w.WriteHeader(f.infoStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(f.info)
	case "/CompanyGosZakupGraph":
		if f.graphStatus != 0 {
			w.WriteHeader(f.graphStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(f.graph)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type LoaderServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	registry *fakeRegistry
	server   *httptest.Server
	service  *DefaultLoaderService
}

func (s *LoaderServiceSuite) SetupTest() {
	db, err := sqlite.Open(":memory:")
	s.Require().NoError(err)
	s.db = db

	s.registry = &fakeRegistry{
		info:  companyInfoDoc("123456789012"),
		graph: procurementGraphDoc(),
	}
	s.server = httptest.NewServer(s.registry)

	s.service = NewLoaderService(db, prgapp.NewClient(s.server.URL), validator.New())
}

func (s *LoaderServiceSuite) TearDownTest() {
	s.server.Close()
}

func TestLoaderServiceSuite(t *testing.T) {
	suite.Run(t, new(LoaderServiceSuite))
}

func text(v string) map[string]any { return map[string]any{"value": v} }

func code(value, description string) map[string]any {
	return map[string]any{"value": map[string]any{"value": value, "description": description}}
}

func point(year int, value float64) map[string]any {
	return map[string]any{"year": year, "value": value}
}

func companyInfoDoc(bin string) map[string]any {
	return map[string]any{
		"basicInfo": map[string]any{
			"bin":              bin,
			"isDeleted":        false,
			"titleRu":          text("ТОО Агро Север"),
			"titleKz":          text("Агро Солтүстік ЖШС"),
			"registrationDate": text("2015-04-01T00:00:00"),
			"ceo":              map[string]any{"value": map[string]any{"title": "Иванов И.И."}},
			"isNds":            map[string]any{"value": true},
			"degreeOfRisk":     text("low"),
			"address":          text("г. Петропавловск, ул. Ленина 1"),
			"krp":              code("105", "Small enterprise"),
			"kse":              code("6", "Private sector"),
			"kfc":              code("131", "LLP"),
			"kato":             code("711000000", "Petropavlovsk"),
			"primaryOKED":      text("01.1 Growing of non-perennial crops"),
			"secondaryOKED":    map[string]any{"value": []string{"62.01 Software development"}},
		},
		"gosZakupContacts": map[string]any{
			"phone": []any{text("+7 777 111 22 33")},
			"email": []any{text("office@agro.kz")},
		},
		"egovContacts": map[string]any{
			"phone": []any{text("+7 777 999 88 77")},
		},
		"taxes": map[string]any{
			"taxGraph": []any{point(2021, 1000), point(2022, 1500)},
			"ndsGraph": []any{point(2022, 300)},
		},
	}
}

func procurementGraphDoc() map[string]any {
	return map[string]any{
		"asSupplier": []any{point(2022, 5000)},
		"asCustomer": []any{point(2021, 700)},
	}
}

func (s *LoaderServiceSuite) TestFirstLoadCreatesFullGraph() {
	result, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)
	s.Equal(contract.LoadStatusCreated, result.Status)
	s.Equal("123456789012", result.BIN)

	company, err := repository.NewCompanyRepository(s.db).FindByBIN("123456789012")
	s.Require().NoError(err)
	s.Require().NotNil(company)

	s.Equal("ТОО Агро Север", company.NameRu)
	s.Equal("Иванов И.И.", company.CEO)
	s.Require().NotNil(company.PayNDS)
	s.True(*company.PayNDS)
	s.Require().NotNil(company.RegisterDate)
	s.Equal(2015, company.RegisterDate.Year())

	// Procurement contacts win over e-government ones.
	s.Equal("+7 777 111 22 33", company.PhoneNumber)
	s.Equal("office@agro.kz", company.Email)

	s.Require().NotNil(company.Territory)
	s.Equal("711000000", company.Territory.Code)
	s.Require().NotNil(company.SizeClass)
	s.Equal("Small enterprise", company.SizeClass.Name)
	s.Require().NotNil(company.PrimaryActivity)
	s.Equal("01.1", company.PrimaryActivity.Code)
	s.Require().Len(company.SecondaryActivities, 1)
	s.Equal("62.01", company.SecondaryActivities[0].Code)

	s.Len(company.Taxes, 2)
	s.Len(company.Vat, 1)
	s.Len(company.SupplierVolumes, 1)
	s.Len(company.CustomerVolumes, 1)
}

func (s *LoaderServiceSuite) TestReloadUpdatesWithoutDuplicates() {
	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	result, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)
	s.Equal(contract.LoadStatusUpdated, result.Status)

	var companyCount int64
	s.Require().NoError(s.db.Model(&entity.Company{}).Count(&companyCount).Error)
	s.EqualValues(1, companyCount)

	var nodeCount int64
	s.Require().NoError(s.db.
		Model(&entity.ClassifierNode{}).
		Where("taxonomy = ?", entity.TaxonomyActivity).
		Count(&nodeCount).Error)
	s.EqualValues(2, nodeCount)

	var taxCount int64
	s.Require().NoError(s.db.Model(&entity.TaxMetric{}).Count(&taxCount).Error)
	s.EqualValues(2, taxCount)
}

func (s *LoaderServiceSuite) TestReloadAppendsOnlyNewerMetricYears() {
	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	s.registry.info["taxes"] = map[string]any{
		"taxGraph": []any{point(2021, 9999), point(2023, 2000)},
		"ndsGraph": []any{},
	}

	_, apierr = s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	var years []int
	s.Require().NoError(s.db.
		Model(&entity.TaxMetric{}).
		Order("year").
		Pluck("year", &years).Error)
	s.Equal([]int{2021, 2022, 2023}, years)

	var kept entity.TaxMetric
	s.Require().NoError(s.db.Where("year = ?", 2021).First(&kept).Error)
	s.Equal(1000.0, kept.Value)
}

func (s *LoaderServiceSuite) TestSparseSnapshotPreservesSecondaryActivities() {
	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	basicInfo := s.registry.info["basicInfo"].(map[string]any)
	basicInfo["secondaryOKED"] = map[string]any{"value": []string{}}

	_, apierr = s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	company, err := repository.NewCompanyRepository(s.db).FindByBIN("123456789012")
	s.Require().NoError(err)
	s.Len(company.SecondaryActivities, 1)
}

func (s *LoaderServiceSuite) TestNonEmptySnapshotReplacesSecondaryActivities() {
	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	basicInfo := s.registry.info["basicInfo"].(map[string]any)
	basicInfo["secondaryOKED"] = map[string]any{"value": []string{"47.11 Retail trade"}}

	_, apierr = s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	company, err := repository.NewCompanyRepository(s.db).FindByBIN("123456789012")
	s.Require().NoError(err)
	s.Require().Len(company.SecondaryActivities, 1)
	s.Equal("47.11", company.SecondaryActivities[0].Code)
}

func (s *LoaderServiceSuite) TestLoadKeepsImportedHierarchyIntact() {
	classifiers := repository.NewClassifierRepository(s.db)
	region, _, err := classifiers.Upsert(entity.TaxonomyTerritory, "710000000", "North region", "")
	s.Require().NoError(err)
	_, _, err = classifiers.Upsert(entity.TaxonomyTerritory, "711000000", "Petropavlovsk", "710000000")
	s.Require().NoError(err)

	// The snapshot names the city code with no hierarchy attached; the
	// imported tree position must survive the load.
	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)

	city, err := classifiers.FindByCode(entity.TaxonomyTerritory, "711000000")
	s.Require().NoError(err)
	s.Require().NotNil(city.ParentID)
	s.Equal(region.ID, *city.ParentID)
	s.Equal("710000000/711000000/", city.Path)

	// Region-level drill-down still finds the loaded company.
	companies, err := repository.NewCompanyRepository(s.db).List(&repository.CompanyFilter{
		TerritoryPrefix: region.Path,
	})
	s.Require().NoError(err)
	s.Require().Len(companies, 1)
	s.Equal("123456789012", companies[0].BIN)
}

func (s *LoaderServiceSuite) TestCanonicalBINComesFromSource() {
	// The source answers with its own identifier regardless of the one
	// asked for.
	result, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "999999999999"})
	s.Require().Nil(apierr)
	s.Equal("123456789012", result.BIN)

	company, err := repository.NewCompanyRepository(s.db).FindByBIN("123456789012")
	s.Require().NoError(err)
	s.NotNil(company)
}

func (s *LoaderServiceSuite) TestDeletedAtSourceWritesNothing() {
	basicInfo := s.registry.info["basicInfo"].(map[string]any)
	basicInfo["isDeleted"] = true

	result, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().Nil(apierr)
	s.Equal(contract.LoadStatusDeleted, result.Status)
	s.Zero(result.CompanyID)

	var count int64
	s.Require().NoError(s.db.Model(&entity.Company{}).Count(&count).Error)
	s.Zero(count)
}

func (s *LoaderServiceSuite) TestMissingIdentityRejected() {
	basicInfo := s.registry.info["basicInfo"].(map[string]any)
	basicInfo["bin"] = ""

	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().NotNil(apierr)
	s.Equal(http.StatusUnprocessableEntity, apierr.Code())
}

func (s *LoaderServiceSuite) TestUpstreamFailureIsSourceUnavailable() {
	s.registry.infoStatus = http.StatusInternalServerError

	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().NotNil(apierr)
	s.Equal(http.StatusBadGateway, apierr.Code())

	var count int64
	s.Require().NoError(s.db.Model(&entity.Company{}).Count(&count).Error)
	s.Zero(count)
}

func (s *LoaderServiceSuite) TestSecondDocumentFailureWritesNothing() {
	s.registry.graphStatus = http.StatusServiceUnavailable

	_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: "123456789012"})
	s.Require().NotNil(apierr)
	s.Equal(http.StatusBadGateway, apierr.Code())

	var count int64
	s.Require().NoError(s.db.Model(&entity.Company{}).Count(&count).Error)
	s.Zero(count)
}

func (s *LoaderServiceSuite) TestMalformedBINFailsValidation() {
	for _, bin := range []string{"", "12345", "12345678901a"} {
		_, apierr := s.service.LoadCompany(context.Background(), &contract.LoadRequest{BIN: bin})
		s.Require().NotNil(apierr)
		s.Equal(http.StatusBadRequest, apierr.Code())
	}
}
