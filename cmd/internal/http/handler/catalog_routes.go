package handler

import (
	"net/http"
	"strconv"
	"strings"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CatalogService interface {
	DrilldownOptions(taxonomy string, selectedID *uint) (*contract.DrilldownResponse, apierror.ErrorResponse)
	ProgramOptions(programID *uint) (*contract.ProgramOptionsResponse, apierror.ErrorResponse)
}

type DefaultCatalogRoute struct {
	CatalogService CatalogService
}

func NewCatalogRoute(catalogService CatalogService) *DefaultCatalogRoute {
	return &DefaultCatalogRoute{CatalogService: catalogService}
}

// GetDrilldownOptions serves one step of the classifier tree navigation.
// The optional "selected" query parameter carries the full navigation
// state.
func (h *DefaultCatalogRoute) GetDrilldownOptions(c echo.Context) error {
	taxonomy := c.Param("taxonomy")

	selected, apierr := optionalIDParam(c, "selected")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := h.CatalogService.DrilldownOptions(taxonomy, selected)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetProgramOptions serves the two-level program/year selector.
func (h *DefaultCatalogRoute) GetProgramOptions(c echo.Context) error {
	program, apierr := optionalIDParam(c, "program")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := h.CatalogService.ProgramOptions(program)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func optionalIDParam(c echo.Context, name string) (*uint, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError(name, "int")
	}

	val := uint(id)
	return &val, nil
}
