package service

import (
	"strconv"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/domain/entity"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// DefaultCatalogService serves the stateless drill-down navigation over the
// classifier trees and the two-level program/year selector. The whole
// navigation state lives in the selected identifier the client sends back;
// nothing is kept server-side.
type DefaultCatalogService struct {
	ClassifierRepo ClassifierRepository
	ProgramRepo    ProgramRepository
}

func NewCatalogService(classifierRepo ClassifierRepository, programRepo ProgramRepository) *DefaultCatalogService {
	return &DefaultCatalogService{
		ClassifierRepo: classifierRepo,
		ProgramRepo:    programRepo,
	}
}

// DrilldownOptions returns the choices for one navigation step. With no
// selection (or a stale one) it offers the taxonomy's roots; with a valid
// selection it offers an "up" choice towards the parent plus the node's
// direct children, all ordered by display name.
func (s *DefaultCatalogService) DrilldownOptions(taxonomy string, selectedID *uint) (*contract.DrilldownResponse, apierror.ErrorResponse) {
	if !entity.IsValidTaxonomy(taxonomy) {
		return nil, apierror.UnknownTaxonomyError
	}
	tax := entity.Taxonomy(taxonomy)

	var selected *entity.ClassifierNode
	if selectedID != nil {
		node, err := s.ClassifierRepo.FindByID(*selectedID)
		if err != nil {
			log.Errorf("failed to fetch classifier node %d: %v", *selectedID, err)
			return nil, apierror.InternalServerError
		}
		if node != nil && node.Taxonomy == tax {
			selected = node
		}
	}

	resp := &contract.DrilldownResponse{Taxonomy: taxonomy}

	if selected == nil {
		roots, err := s.ClassifierRepo.Roots(tax)
		if err != nil {
			log.Errorf("failed to fetch %s roots: %v", taxonomy, err)
			return nil, apierror.InternalServerError
		}
		resp.Choices = toChoices(roots)
		return resp, nil
	}

	resp.Selected = toChoice(selected)

	if selected.ParentID != nil {
		parent, err := s.ClassifierRepo.FindByID(*selected.ParentID)
		if err != nil {
			log.Errorf("failed to fetch parent node %d: %v", *selected.ParentID, err)
			return nil, apierror.InternalServerError
		}
		if parent != nil {
			resp.Up = toChoice(parent)
		}
	}

	children, err := s.ClassifierRepo.Children(selected.ID)
	if err != nil {
		log.Errorf("failed to fetch children of node %d: %v", selected.ID, err)
		return nil, apierror.InternalServerError
	}
	resp.Choices = toChoices(children)
	return resp, nil
}

// ProgramOptions is the program/year variant of the drill-down: level one
// lists programs with participants, level two the recorded years of the
// chosen program. Rows without a year surface as a dedicated bucket.
func (s *DefaultCatalogService) ProgramOptions(programID *uint) (*contract.ProgramOptionsResponse, apierror.ErrorResponse) {
	var selected *entity.Program
	if programID != nil {
		program, err := s.ProgramRepo.FindByID(*programID)
		if err != nil {
			log.Errorf("failed to fetch program %d: %v", *programID, err)
			return nil, apierror.InternalServerError
		}
		selected = program
	}

	if selected == nil {
		programs, err := s.ProgramRepo.ProgramsWithParticipants()
		if err != nil {
			log.Errorf("failed to fetch programs: %v", err)
			return nil, apierror.InternalServerError
		}

		resp := &contract.ProgramOptionsResponse{
			Programs: make([]*contract.ChoiceResponse, len(programs)),
		}
		for i, p := range programs {
			resp.Programs[i] = &contract.ChoiceResponse{ID: p.ID, Name: p.Name}
		}
		return resp, nil
	}

	years, hasNoYear, err := s.ProgramRepo.Years(selected.ID)
	if err != nil {
		log.Errorf("failed to fetch years for program %d: %v", selected.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.ProgramOptionsResponse{
		Selected: &contract.ChoiceResponse{ID: selected.ID, Name: selected.Name},
	}
	for _, y := range years {
		year := y
		resp.Years = append(resp.Years, &contract.YearChoice{
			Year:  &year,
			Label: strconv.Itoa(year),
		})
	}
	if hasNoYear {
		resp.Years = append(resp.Years, &contract.YearChoice{
			Label:  "No year",
			NoYear: true,
		})
	}
	return resp, nil
}

func toChoice(n *entity.ClassifierNode) *contract.ChoiceResponse {
	return &contract.ChoiceResponse{
		ID:   n.ID,
		Code: n.Code,
		Name: n.Name,
	}
}

func toChoices(nodes []*entity.ClassifierNode) []*contract.ChoiceResponse {
	choices := make([]*contract.ChoiceResponse, len(nodes))
	for i, n := range nodes {
		choices[i] = toChoice(n)
	}
	return choices
}
