package handler

import (
	"context"
	"net/http"
	"strings"

	"binregistry/cmd/internal/contract"
	"binregistry/cmd/internal/utils"
	"binregistry/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type LoaderService interface {
	LoadCompany(ctx context.Context, req *contract.LoadRequest) (*contract.LoadResult, apierror.ErrorResponse)
}

type DefaultLoaderRoute struct {
	LoaderService LoaderService
}

func NewLoaderRoute(loaderService LoaderService) *DefaultLoaderRoute {
	return &DefaultLoaderRoute{LoaderService: loaderService}
}

// LoadCompany triggers a reconciliation load for the submitted BIN. The
// identifier is rejected here, before any upstream call is attempted, when
// it is not a numeric string.
func (l *DefaultLoaderRoute) LoadCompany(c echo.Context) error {
	var req contract.LoadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	req.BIN = strings.TrimSpace(req.BIN)
	if !utils.IsBINValid(req.BIN) {
		apierr := apierror.InvalidBINError
		return c.JSON(apierr.Code(), apierr)
	}

	result, apierr := l.LoaderService.LoadCompany(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, result)
}
