package service

import (
	"strconv"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/domain/sqlite/repository"
)

// ClassifierRepository is the read surface the filter and catalog layers
// need from the classifier tree store.
type ClassifierRepository interface {
	FindByID(id uint) (*entity.ClassifierNode, error)
	FindByCode(taxonomy entity.Taxonomy, code string) (*entity.ClassifierNode, error)
	Roots(taxonomy entity.Taxonomy) ([]*entity.ClassifierNode, error)
	Children(parentID uint) ([]*entity.ClassifierNode, error)
}

type ProgramRepository interface {
	FindByID(id uint) (*entity.Program, error)
	ProgramsWithParticipants() ([]*entity.Program, error)
	Years(programID uint) ([]int, bool, error)
}

// resolveFilter turns the user's selections into relational predicates and
// a human-readable description of what was applied. A selected node that no
// longer exists, or whose taxonomy does not match the axis, degrades to "no
// filter on that axis" rather than erroring.
func resolveFilter(classifiers ClassifierRepository, programs ProgramRepository, req *contract.CompanyFilterRequest) (*repository.CompanyFilter, []string, error) {
	filter := &repository.CompanyFilter{}
	var parts []string

	if req == nil {
		return filter, parts, nil
	}

	territory, err := resolveNode(classifiers, req.TerritoryID, entity.TaxonomyTerritory)
	if err != nil {
		return nil, nil, err
	}
	if territory != nil {
		filter.TerritoryPrefix = territory.Path
		parts = append(parts, territory.Name)
	}

	activity, err := resolveNode(classifiers, req.ActivityID, entity.TaxonomyActivity)
	if err != nil {
		return nil, nil, err
	}
	if activity != nil {
		filter.ActivityPrefix = activity.Path
		parts = append(parts, activity.Name)
	}

	sector, err := resolveNode(classifiers, req.EconomicSectorID, entity.TaxonomyEconomicSector)
	if err != nil {
		return nil, nil, err
	}
	if sector != nil {
		filter.SectorPrefix = sector.Path
		parts = append(parts, sector.Name)
	}

	product, err := resolveNode(classifiers, req.ProductID, entity.TaxonomyProductCategory)
	if err != nil {
		return nil, nil, err
	}
	if product != nil {
		filter.ProductPrefix = product.Path
		parts = append(parts, product.Name)
	}

	industry, err := resolveNode(classifiers, req.IndustryID, entity.TaxonomyIndustry)
	if err != nil {
		return nil, nil, err
	}
	if industry != nil {
		filter.IndustryPrefix = industry.Path
		parts = append(parts, industry.Name)
	}

	ownership, err := resolveNode(classifiers, req.OwnershipFormID, entity.TaxonomyOwnershipForm)
	if err != nil {
		return nil, nil, err
	}
	if ownership != nil {
		filter.OwnershipFormID = &ownership.ID
		parts = append(parts, ownership.Name)
	}

	size, err := resolveNode(classifiers, req.SizeClassID, entity.TaxonomySizeClass)
	if err != nil {
		return nil, nil, err
	}
	if size != nil {
		filter.SizeClassID = &size.ID
		parts = append(parts, size.Name)
	}

	if req.ProgramID != nil {
		program, err := programs.FindByID(*req.ProgramID)
		if err != nil {
			return nil, nil, err
		}
		if program != nil {
			filter.ProgramID = &program.ID
			filter.Year = req.Year
			filter.NoYear = req.NoYear
			parts = append(parts, describeProgram(program, req))
		}
	}

	filter.Search = req.Search
	return filter, parts, nil
}

func resolveNode(classifiers ClassifierRepository, id *uint, taxonomy entity.Taxonomy) (*entity.ClassifierNode, error) {
	if id == nil {
		return nil, nil
	}

	node, err := classifiers.FindByID(*id)
	if err != nil {
		return nil, err
	}
	if node == nil || node.Taxonomy != taxonomy {
		return nil, nil
	}
	return node, nil
}

func describeProgram(program *entity.Program, req *contract.CompanyFilterRequest) string {
	desc := "program \"" + program.Name + "\""
	if req.NoYear {
		return desc + " (no year)"
	}
	if req.Year != nil {
		return desc + " (" + strconv.Itoa(*req.Year) + ")"
	}
	return desc
}
