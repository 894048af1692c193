package service

import (
	"bytes"
	"encoding/csv"
	"strings"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/infrastructure/aws/storage"
	"binregistry/cmd/internal/utils"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// DefaultExportService renders a filtered company list into a CSV artifact
// and stores it in the export bucket. The first line describes the filters
// that produced the list so the document stands on its own.
type DefaultExportService struct {
	CompanyRepo    CompanyRepository
	ClassifierRepo ClassifierRepository
	ProgramRepo    ProgramRepository
	Storage        storage.S3Client
	Validate       *validator.Validate
}

func NewExportService(
	companyRepo CompanyRepository,
	classifierRepo ClassifierRepository,
	programRepo ProgramRepository,
	s3 storage.S3Client,
	validate *validator.Validate,
) *DefaultExportService {
	return &DefaultExportService{
		CompanyRepo:    companyRepo,
		ClassifierRepo: classifierRepo,
		ProgramRepo:    programRepo,
		Storage:        s3,
		Validate:       validate,
	}
}

func (s *DefaultExportService) ExportCompanies(req *contract.CompanyFilterRequest) (*contract.ExportResponse, apierror.ErrorResponse) {
	if req != nil {
		utils.Sanitize(req)
		if valerr := s.Validate.Struct(req); valerr != nil {
			return nil, apierror.FromValidationError(valerr)
		}
	}

	filter, parts, err := resolveFilter(s.ClassifierRepo, s.ProgramRepo, req)
	if err != nil {
		log.Errorf("failed to resolve export filter: %v", err)
		return nil, apierror.InternalServerError
	}

	companies, err := s.CompanyRepo.List(filter)
	if err != nil {
		log.Errorf("failed to list companies for export: %v", err)
		return nil, apierror.InternalServerError
	}

	data, err := s.renderCSV(parts, companies)
	if err != nil {
		log.Errorf("failed to render export: %v", err)
		return nil, apierror.InternalServerError
	}

	key, err := s.Storage.UploadFile(data, uuid.NewString()+".csv")
	if err != nil {
		log.Errorf("failed to upload export: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.ExportResponse{Key: key, Rows: len(companies)}, nil
}

func (s *DefaultExportService) renderCSV(filterParts []string, companies []*entity.Company) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{exportTitle(filterParts)},
		{"Name", "Region", "Products", "Contacts"},
	}
	for _, company := range companies {
		records = append(records, []string{
			company.NameRu,
			s.regionName(company),
			formatProducts(company.Products),
			formatContacts(company.Contacts),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportTitle(parts []string) string {
	if len(parts) == 0 {
		return "This list contains all companies, no filters applied."
	}
	return "This list contains companies selected by the following parameters: " +
		strings.Join(parts, ", ") + "."
}

// regionName maps the company's territory code onto its region: the first
// two code digits with the remainder zeroed address the region row of the
// territorial classifier. Falls back to the derived code when the region
// row is missing.
func (s *DefaultExportService) regionName(company *entity.Company) string {
	if company.Territory == nil || len(company.Territory.Code) < 2 {
		return ""
	}

	code := company.Territory.Code
	regionCode := code[:2] + strings.Repeat("0", len(code)-2)

	region, err := s.ClassifierRepo.FindByCode(entity.TaxonomyTerritory, regionCode)
	if err != nil {
		log.Errorf("failed to resolve region %s: %v", regionCode, err)
		return regionCode
	}
	if region == nil {
		return regionCode
	}
	return region.Name
}

func formatProducts(products []*entity.ClassifierNode) string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return strings.Join(names, "; ")
}

func formatContacts(contacts []*entity.CompanyContact) string {
	var entries []string
	for _, c := range contacts {
		entry := c.FullName
		if c.Position != "" {
			entry += " (" + c.Position + ")"
		}

		var reach []string
		if email := c.PrimaryEmail(); email != "" {
			reach = append(reach, email)
		}
		if phone := c.PrimaryPhone(); phone != "" {
			reach = append(reach, phone)
		}
		if len(reach) > 0 {
			entry += ": " + strings.Join(reach, ", ")
		}
		entries = append(entries, entry)
	}
	return strings.Join(entries, "; ")
}
