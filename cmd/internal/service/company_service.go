package service

import (
	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite/repository"
	"binregistry/cmd/internal/utils"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CompanyRepository interface {
	FindByBIN(bin string) (*entity.Company, error)
	List(f *repository.CompanyFilter) ([]*entity.Company, error)
}

// DefaultCompanyService is the read side: single-company projection and the
// filtered listing. It never mutates anything.
type DefaultCompanyService struct {
	CompanyRepo    CompanyRepository
	ClassifierRepo ClassifierRepository
	ProgramRepo    ProgramRepository
	Validate       *validator.Validate
}

func NewCompanyService(
	companyRepo CompanyRepository,
	classifierRepo ClassifierRepository,
	programRepo ProgramRepository,
	validate *validator.Validate,
) *DefaultCompanyService {
	return &DefaultCompanyService{
		CompanyRepo:    companyRepo,
		ClassifierRepo: classifierRepo,
		ProgramRepo:    programRepo,
		Validate:       validate,
	}
}

func (s *DefaultCompanyService) GetCompanyByBIN(bin string) (*contract.CompanyResponse, apierror.ErrorResponse) {
	company, err := s.CompanyRepo.FindByBIN(bin)
	if err != nil {
		log.Errorf("failed to fetch company %s: %v", bin, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.NotFoundError
	}
	return toCompanyResponse(company), nil
}

func (s *DefaultCompanyService) ListCompanies(req *contract.CompanyFilterRequest) ([]*contract.CompanySummaryResponse, apierror.ErrorResponse) {
	if req != nil {
		utils.Sanitize(req)
		if valerr := s.Validate.Struct(req); valerr != nil {
			return nil, apierror.FromValidationError(valerr)
		}
	}

	filter, _, err := resolveFilter(s.ClassifierRepo, s.ProgramRepo, req)
	if err != nil {
		log.Errorf("failed to resolve company filter: %v", err)
		return nil, apierror.InternalServerError
	}

	companies, err := s.CompanyRepo.List(filter)
	if err != nil {
		log.Errorf("failed to list companies: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CompanySummaryResponse, len(companies))
	for i, company := range companies {
		resp[i] = toCompanySummary(company)
	}
	return resp, nil
}

func toCompanySummary(c *entity.Company) *contract.CompanySummaryResponse {
	summary := &contract.CompanySummaryResponse{
		ID:     c.ID,
		BIN:    c.BIN,
		NameRu: c.NameRu,
		NameKz: c.NameKz,
	}
	if c.Territory != nil {
		summary.Territory = c.Territory.Name
	}
	if c.PrimaryActivity != nil {
		summary.Activity = c.PrimaryActivity.Name
	}
	return summary
}

func toCompanyResponse(c *entity.Company) *contract.CompanyResponse {
	return &contract.CompanyResponse{
		ID:              c.ID,
		BIN:             c.BIN,
		NameRu:          c.NameRu,
		NameKz:          c.NameKz,
		RegisterDate:    utils.FormatDate(c.RegisterDate),
		CEO:             c.CEO,
		PayNDS:          c.PayNDS,
		TaxRisk:         c.TaxRisk,
		Address:         c.Address,
		PhoneNumber:     c.PhoneNumber,
		Email:           c.Email,
		Territory:       toClassifierResponse(c.Territory),
		OwnershipForm:   toClassifierResponse(c.OwnershipForm),
		EconomicSector:  toClassifierResponse(c.EconomicSector),
		SizeClass:       toClassifierResponse(c.SizeClass),
		PrimaryActivity: toClassifierResponse(c.PrimaryActivity),
		Industry:        toClassifierResponse(c.Industry),
		SecondaryCodes:  toClassifierResponses(c.SecondaryActivities),
		Products:        toClassifierResponses(c.Products),
		Contacts:        toContactResponses(c.Contacts),
		Taxes:           toMetricPoints(taxPoints(c.Taxes)),
		Vat:             toMetricPoints(vatPoints(c.Vat)),
		SupplierVolumes: toMetricPoints(supplierPoints(c.SupplierVolumes)),
		CustomerVolumes: toMetricPoints(customerPoints(c.CustomerVolumes)),
		Participations:  toParticipationResponses(c.Participations),
		UpdatedAt:       utils.FormatEpoch(c.UpdatedAt),
	}
}

func toClassifierResponse(n *entity.ClassifierNode) *contract.ClassifierResponse {
	if n == nil {
		return nil
	}
	return &contract.ClassifierResponse{
		ID:   n.ID,
		Code: n.Code,
		Name: n.Name,
		Path: n.Path,
	}
}

func toClassifierResponses(nodes []*entity.ClassifierNode) []*contract.ClassifierResponse {
	resp := make([]*contract.ClassifierResponse, len(nodes))
	for i, n := range nodes {
		resp[i] = toClassifierResponse(n)
	}
	return resp
}

func toContactResponses(contacts []*entity.CompanyContact) []*contract.ContactResponse {
	resp := make([]*contract.ContactResponse, len(contacts))
	for i, c := range contacts {
		resp[i] = &contract.ContactResponse{
			ID:       c.ID,
			FullName: c.FullName,
			Position: c.Position,
			Notes:    c.Notes,
			Emails:   toEmailOptions(c.Emails),
			Phones:   toPhoneOptions(c.Phones),
		}
	}
	return resp
}

func toEmailOptions(emails []*entity.ContactEmail) []*contract.ContactEntryOption {
	resp := make([]*contract.ContactEntryOption, len(emails))
	for i, e := range emails {
		resp[i] = &contract.ContactEntryOption{
			Value:     e.Email,
			IsPrimary: e.IsPrimary,
			IsMailing: e.IsMailing,
		}
	}
	return resp
}

func toPhoneOptions(phones []*entity.ContactPhone) []*contract.ContactEntryOption {
	resp := make([]*contract.ContactEntryOption, len(phones))
	for i, p := range phones {
		resp[i] = &contract.ContactEntryOption{
			Value:     p.Phone,
			IsPrimary: p.IsPrimary,
			IsMailing: p.IsMailing,
		}
	}
	return resp
}

func toMetricPoints(points []entity.MetricPoint) []*contract.MetricPointResponse {
	resp := make([]*contract.MetricPointResponse, len(points))
	for i, p := range points {
		resp[i] = &contract.MetricPointResponse{Year: p.Year, Value: p.Value}
	}
	return resp
}

func toParticipationResponses(rows []*entity.ProgramParticipation) []*contract.ParticipationResponse {
	resp := make([]*contract.ParticipationResponse, len(rows))
	for i, r := range rows {
		p := &contract.ParticipationResponse{Year: r.Year}
		if r.Program != nil {
			p.Program = r.Program.Name
		}
		resp[i] = p
	}
	return resp
}

func taxPoints(rows []*entity.TaxMetric) []entity.MetricPoint {
	points := make([]entity.MetricPoint, len(rows))
	for i, r := range rows {
		points[i] = entity.MetricPoint{Year: r.Year, Value: r.Value}
	}
	return points
}

func vatPoints(rows []*entity.VatMetric) []entity.MetricPoint {
	points := make([]entity.MetricPoint, len(rows))
	for i, r := range rows {
		points[i] = entity.MetricPoint{Year: r.Year, Value: r.Value}
	}
	return points
}

func supplierPoints(rows []*entity.SupplierMetric) []entity.MetricPoint {
	points := make([]entity.MetricPoint, len(rows))
	for i, r := range rows {
		points[i] = entity.MetricPoint{Year: r.Year, Value: r.Value}
	}
	return points
}

func customerPoints(rows []*entity.CustomerMetric) []entity.MetricPoint {
	points := make([]entity.MetricPoint, len(rows))
	for i, r := range rows {
		points[i] = entity.MetricPoint{Year: r.Year, Value: r.Value}
	}
	return points
}
