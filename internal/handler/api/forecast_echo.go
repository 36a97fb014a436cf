package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "LiqCast/internal/domain/models"
	icache "LiqCast/internal/service/cache"
	"LiqCast/internal/service/metrics"
	"LiqCast/internal/service/ratelimit"
	"LiqCast/internal/usecase"
	xhttp "LiqCast/pkg/http"
	xlogger "LiqCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler exposes the forecast engine over Echo.
type ForecastEchoHandler struct {
	logger   *xlogger.Logger
	forecast *usecase.ForecastUseCase
	bookings *usecase.BookingsUseCase
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
	health   func() bool
}

func NewForecastEchoHandler(logger *xlogger.Logger, fc *usecase.ForecastUseCase, bk *usecase.BookingsUseCase) *ForecastEchoHandler {
	metrics.Register()
	return &ForecastEchoHandler{
		logger:   logger,
		forecast: fc,
		bookings: bk,
		rl:       ratelimit.New(),
	}
}

// SetCache injects a byte cache for booking history responses.
func (h *ForecastEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetHealthCheck injects a liveness probe for the feed connection.
func (h *ForecastEchoHandler) SetHealthCheck(fn func() bool) { h.health = fn }

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/forecast", h.Forecast)
	g.GET("/bookings", h.Bookings)
	e.GET("/health", h.Health)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.ForecastLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())
	}()

	if !h.rl.Allow(c.RealIP()+":forecast", 5, 2) {
		h.logger.Warn("forecast rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.forecast.Generate(c.Request().Context(), req)
	if err != nil {
		metrics.ForecastErrors.WithLabelValues("http").Inc()
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	for _, a := range res.Result.Alerts {
		metrics.ForecastAlerts.WithLabelValues(string(a.Severity)).Inc()
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Bookings(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":bookings", 10, 5) {
		h.logger.Warn("bookings rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsResponse(c, "rate limited")
	}

	req := &models.BookingsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	from := xhttp.ParseTimeDefault(req.From, now.AddDate(0, -6, 0))
	to := xhttp.ParseTimeDefault(req.To, now)

	cacheKey := "bookings:" + from.Format("2006-01-02") + ":" + to.Format("2006-01-02")
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("bookings cache_get_error", xlogger.Error(err))
		} else if ok {
			h.logger.Debug("bookings cache_hit", xlogger.String("key", cacheKey))
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	res, err := h.bookings.GetBookings(c.Request().Context(), usecase.GetBookingsParams{
		From:  from,
		To:    to,
		Limit: req.Limit,
	})
	if err != nil {
		metrics.ForecastErrors.WithLabelValues("bookings").Inc()
		h.logger.Error("bookings usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := marshalForCache(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 30*time.Second); err != nil {
				h.logger.Warn("bookings cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

// marshalForCache serializes the standard response envelope so cache hits
// and misses produce byte-identical bodies.
func marshalForCache(data interface{}) ([]byte, error) {
	return json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	status := map[string]interface{}{"status": "ok"}
	if h.health != nil {
		connected := h.health()
		status["feed_connected"] = connected
		if !connected {
			status["status"] = "degraded"
		}
	}
	return xhttp.SuccessResponse(c, status)
}
