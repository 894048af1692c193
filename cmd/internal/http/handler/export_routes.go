package handler

import (
	"net/http"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ExportService interface {
	ExportCompanies(req *contract.CompanyFilterRequest) (*contract.ExportResponse, apierror.ErrorResponse)
}

type DefaultExportRoute struct {
	ExportService ExportService
}

func NewExportRoute(exportService ExportService) *DefaultExportRoute {
	return &DefaultExportRoute{ExportService: exportService}
}

// ExportCompanies renders the filtered list into a stored CSV artifact and
// returns its object key.
func (h *DefaultExportRoute) ExportCompanies(c echo.Context) error {
	var req contract.CompanyFilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := h.ExportService.ExportCompanies(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
