package handler

import (
	"net/http"
	"strings"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/utils"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CompanyService interface {
	GetCompanyByBIN(bin string) (*contract.CompanyResponse, apierror.ErrorResponse)
	ListCompanies(req *contract.CompanyFilterRequest) ([]*contract.CompanySummaryResponse, apierror.ErrorResponse)
}

type DefaultCompanyRoute struct {
	CompanyService CompanyService
}

func NewCompanyRoute(companyService CompanyService) *DefaultCompanyRoute {
	return &DefaultCompanyRoute{CompanyService: companyService}
}

// GetCompanies lists companies matching the filter selections passed as
// query parameters. Without parameters it lists everything.
func (h *DefaultCompanyRoute) GetCompanies(c echo.Context) error {
	var req contract.CompanyFilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("filter", "int"))
	}

	companies, apierr := h.CompanyService.ListCompanies(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"companies": companies}
	return c.JSON(http.StatusOK, &resp)
}

// GetCompany returns the full entity graph for one BIN.
func (h *DefaultCompanyRoute) GetCompany(c echo.Context) error {
	bin := strings.TrimSpace(c.Param("bin"))
	if !utils.IsBINValid(bin) {
		apierr := apierror.InvalidBINError
		return c.JSON(apierr.Code(), apierr)
	}

	company, apierr := h.CompanyService.GetCompanyByBIN(bin)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}
