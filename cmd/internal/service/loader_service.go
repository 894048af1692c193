package service

import (
	"context"
	"errors"
	"net/url"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite/repository"
	"binregistry/cmd/internal/infrastructure/prgapp"
	"binregistry/cmd/internal/utils"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// RegistryClient pulls the two upstream documents for one BIN.
type RegistryClient interface {
	CompanyFullInfo(ctx context.Context, bin string) (*prgapp.CompanyInfo, error)
	GosZakupGraph(ctx context.Context, bin string) (*prgapp.ProcurementGraph, error)
}

// DefaultLoaderService reconciles the upstream registry snapshot into local
// storage. Every local write of one load happens inside a single
// transaction: classifier upserts, the company upsert, the secondary
// activity replacement and the metric appends commit together or not at
// all.
type DefaultLoaderService struct {
	DB       *gorm.DB
	Client   RegistryClient
	Validate *validator.Validate
}

func NewLoaderService(db *gorm.DB, client RegistryClient, validate *validator.Validate) *DefaultLoaderService {
	return &DefaultLoaderService{
		DB:       db,
		Client:   client,
		Validate: validate,
	}
}

func (s *DefaultLoaderService) LoadCompany(ctx context.Context, req *contract.LoadRequest) (*contract.LoadResult, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	info, err := s.Client.CompanyFullInfo(ctx, req.BIN)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	graph, err := s.Client.GosZakupGraph(ctx, req.BIN)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	// Upstream deletions are surfaced as information, never applied to
	// local history.
	if info.IsDeleted() {
		return &contract.LoadResult{
			Status:  contract.LoadStatusDeleted,
			Message: "Company is marked deleted at the source. BIN: " + req.BIN,
			BIN:     req.BIN,
		}, nil
	}

	// The canonical BIN is the one the source reports, not the one asked
	// for.
	bin := info.BIN()
	if bin == "" {
		return nil, apierror.MissingIdentityError
	}

	var result *contract.LoadResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.merge(tx, bin, info, graph)
		return txErr
	})
	if err != nil {
		log.Errorf("failed to load company %s: %v", bin, err)
		return nil, apierror.NewUncategorizedError(err)
	}
	return result, nil
}

func (s *DefaultLoaderService) merge(tx *gorm.DB, bin string, info *prgapp.CompanyInfo, graph *prgapp.ProcurementGraph) (*contract.LoadResult, error) {
	classifiers := repository.NewClassifierRepository(tx)
	companies := repository.NewCompanyRepository(tx)
	metrics := repository.NewMetricRepository(tx)

	fresh := &entity.Company{
		BIN:          bin,
		NameRu:       info.NameRu(),
		NameKz:       info.NameKz(),
		RegisterDate: info.RegisterDate(),
		CEO:          info.CEO(),
		PayNDS:       info.PayNDS(),
		TaxRisk:      info.TaxRisk(),
		Address:      info.Address(),
		PhoneNumber:  info.PhoneNumber(),
		Email:        info.EmailAddress(),
	}

	var err error
	fresh.TerritoryID, err = upsertFlat(classifiers, entity.TaxonomyTerritory, info.Territory())
	if err != nil {
		return nil, err
	}
	fresh.OwnershipFormID, err = upsertFlat(classifiers, entity.TaxonomyOwnershipForm, info.OwnershipForm())
	if err != nil {
		return nil, err
	}
	fresh.EconomicSectorID, err = upsertFlat(classifiers, entity.TaxonomyEconomicSector, info.EconomicSector())
	if err != nil {
		return nil, err
	}
	fresh.SizeClassID, err = upsertFlat(classifiers, entity.TaxonomySizeClass, info.SizeClass())
	if err != nil {
		return nil, err
	}

	if code, name, ok := prgapp.ParseActivityToken(info.PrimaryActivityToken()); ok {
		node, uerr := classifiers.EnsureNode(entity.TaxonomyActivity, code, name)
		if uerr != nil {
			return nil, uerr
		}
		fresh.PrimaryActivityID = &node.ID
	}

	company, created, err := companies.Upsert(fresh)
	if err != nil {
		return nil, err
	}

	// A non-empty source list replaces the relation wholesale; an empty or
	// absent list leaves the stored set untouched so a sparse snapshot
	// cannot wipe known data.
	if tokens := info.SecondaryActivityTokens(); len(tokens) > 0 {
		var nodes []*entity.ClassifierNode
		for _, token := range tokens {
			code, name, ok := prgapp.ParseActivityToken(token)
			if !ok {
				continue
			}
			node, uerr := classifiers.EnsureNode(entity.TaxonomyActivity, code, name)
			if uerr != nil {
				return nil, uerr
			}
			nodes = append(nodes, node)
		}
		if err := companies.ReplaceSecondaryActivities(company, nodes); err != nil {
			return nil, err
		}
	}

	if err := metrics.AppendTaxes(company.ID, info.TaxPoints()); err != nil {
		return nil, err
	}
	if err := metrics.AppendVat(company.ID, info.VatPoints()); err != nil {
		return nil, err
	}
	if err := metrics.AppendSupplierVolumes(company.ID, graph.SupplierPoints()); err != nil {
		return nil, err
	}
	if err := metrics.AppendCustomerVolumes(company.ID, graph.CustomerPoints()); err != nil {
		return nil, err
	}

	result := &contract.LoadResult{
		Status:    contract.LoadStatusUpdated,
		Message:   "Company data updated. BIN: " + bin,
		BIN:       bin,
		CompanyID: company.ID,
	}
	if created {
		result.Status = contract.LoadStatusCreated
		result.Message = "Company data loaded. BIN: " + bin
	}
	return result, nil
}

// upsertFlat resolves one snapshot code/name pair to a node id. EnsureNode
// keeps an existing node where a reference import placed it; the snapshot
// knows the code but not the tree position.
func upsertFlat(classifiers *repository.DefaultClassifierRepository, taxonomy entity.Taxonomy, cn prgapp.CodeName) (*uint, error) {
	if cn.Code == "" {
		return nil, nil
	}

	node, err := classifiers.EnsureNode(taxonomy, cn.Code, cn.Name)
	if err != nil {
		return nil, err
	}
	return &node.ID, nil
}

// classifyFetchError maps upstream failures onto the API error taxonomy:
// non-success statuses and transport errors (timeouts included) mean the
// source is unavailable, anything else (malformed JSON and the like) is an
// uncategorized failure.
func classifyFetchError(err error) apierror.ErrorResponse {
	var statusErr *prgapp.StatusError
	var urlErr *url.Error
	if errors.As(err, &statusErr) || errors.As(err, &urlErr) {
		return apierror.NewSourceUnavailableError(err)
	}

	log.Errorf("company load failed: %v", err)
	return apierror.NewUncategorizedError(err)
}
