package api

import (
	models "RateWatch/internal/domain/models"
	"RateWatch/internal/usecase"
	xhttp "RateWatch/pkg/http"
	xlogger "RateWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OutlookHandler exposes the rate-outlook views over Echo.
type OutlookHandler struct {
	logger  *xlogger.Logger
	outlook *usecase.RateOutlookUseCase
}

func NewOutlookHandler(logger *xlogger.Logger, outlook *usecase.RateOutlookUseCase) *OutlookHandler {
	return &OutlookHandler{logger: logger, outlook: outlook}
}

func (h *OutlookHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/meetings", h.Meetings)
	g.GET("/probabilities", h.Probabilities)
	g.GET("/path", h.Path)
	g.GET("/evolution", h.Evolution)
}

func (h *OutlookHandler) Meetings(c echo.Context) error {
	res := h.outlook.Meetings(c.Request().Context())
	return xhttp.SuccessResponse(c, res)
}

func (h *OutlookHandler) Probabilities(c echo.Context) error {
	req := &models.ProbabilitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.outlook.Probabilities(c.Request().Context(), req.Count)
	if err != nil {
		h.logger.Error("probabilities usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *OutlookHandler) Path(c echo.Context) error {
	req := &models.PathRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.outlook.Path(c.Request().Context(), req.Count)
	if err != nil {
		h.logger.Error("path usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *OutlookHandler) Evolution(c echo.Context) error {
	req := &models.EvolutionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.outlook.Evolution(c.Request().Context(), req.Meeting, req.Lookback)
	if err != nil {
		h.logger.Error("evolution usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
