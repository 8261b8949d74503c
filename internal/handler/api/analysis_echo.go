package api

import (
	"time"

	models "SharePulse/internal/domain/models"
	apimetrics "SharePulse/internal/service/metrics"
	"SharePulse/internal/usecase"
	xhttp "SharePulse/pkg/http"
	xlogger "SharePulse/pkg/logger"
	"SharePulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// AnalysisEchoHandler serves the forecasting and analysis API.
type AnalysisEchoHandler struct {
	logger    *xlogger.Logger
	analyzer  *usecase.StockAnalyzer
	portfolio *usecase.PortfolioUseCase
	history   *usecase.HistoryUseCase
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, analyzer *usecase.StockAnalyzer, portfolio *usecase.PortfolioUseCase, history *usecase.HistoryUseCase) *AnalysisEchoHandler {
	apimetrics.Register()
	return &AnalysisEchoHandler{logger: logger, analyzer: analyzer, portfolio: portfolio, history: history}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/analysis", h.Analysis)
	g.GET("/portfolio", h.Portfolio)
	g.GET("/history", h.History)
}

func (h *AnalysisEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("forecast").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Forecast(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		apimetrics.APIErrors.WithLabelValues("forecast").Inc()
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("market data unavailable").WithError(err))
	}
	apimetrics.APILatency.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	start := time.Now()
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("analysis").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		apimetrics.APIErrors.WithLabelValues("analysis").Inc()
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("market data unavailable").WithError(err))
	}
	apimetrics.APILatency.WithLabelValues("analysis").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Portfolio(c echo.Context) error {
	start := time.Now()
	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("portfolio").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	if len(util.SplitSymbols(req.Symbols)) == 0 {
		apimetrics.APIErrors.WithLabelValues("portfolio").Inc()
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError("symbols must name at least one symbol"))
	}

	res, err := h.portfolio.Analyze(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("portfolio usecase error", xlogger.Error(err))
		apimetrics.APIErrors.WithLabelValues("portfolio").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	apimetrics.APILatency.WithLabelValues("portfolio").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) History(c echo.Context) error {
	start := time.Now()
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.APIErrors.WithLabelValues("history").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	params := usecase.GetHistoryParams{
		Symbol: req.Symbol,
		From:   xhttp.ParseTimeDefault(req.From, now.AddDate(-1, 0, 0)),
		To:     xhttp.ParseTimeDefault(req.To, now),
		Limit:  req.Limit,
	}

	res, err := h.history.GetHistory(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		apimetrics.APIErrors.WithLabelValues("history").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	apimetrics.APILatency.WithLabelValues("history").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

var _ xhttp.Handler = (*AnalysisEchoHandler)(nil)
