// Package api serves the aircare HTTP interface.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"aircare/internal/database"
	"aircare/internal/fleet"
	"aircare/internal/prediction"
	"aircare/internal/scheduler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const bodyLimit = "1M"

// TaskStatusProvider reports background task progress for /health
type TaskStatusProvider interface {
	Status() []scheduler.TaskStatus
}

// Dependencies holds all handler dependencies
type Dependencies struct {
	Aircraft       database.AircraftRepository
	Readings       database.ReadingRepository
	Predictions    database.PredictionRepository
	Gateway        prediction.Gateway
	Catalog        *fleet.Catalog
	Tasks          TaskStatusProvider
	Version        string
	FlightDuration time.Duration
	Now            func() time.Time
}

// Handler implements every route
type Handler struct {
	aircraft       database.AircraftRepository
	readings       database.ReadingRepository
	predictions    database.PredictionRepository
	gateway        prediction.Gateway
	catalog        *fleet.Catalog
	recorder       *fleet.Recorder
	tasks          TaskStatusProvider
	version        string
	flightDuration time.Duration
	now            func() time.Time
}

// NewHandler creates the handler set
func NewHandler(deps *Dependencies) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = &fleet.Catalog{}
	}
	return &Handler{
		aircraft:       deps.Aircraft,
		readings:       deps.Readings,
		predictions:    deps.Predictions,
		gateway:        deps.Gateway,
		catalog:        catalog,
		recorder:       fleet.NewRecorder(deps.Aircraft),
		tasks:          deps.Tasks,
		version:        deps.Version,
		flightDuration: deps.FlightDuration,
		now:            now,
	}
}

// NewServer builds the echo instance with middleware and routes installed
func NewServer(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Debug("Request handled", attrs...)
			return nil
		},
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/metrics"
		},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	RegisterRoutes(e, NewHandler(deps))
	return e
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiGroup := e.Group("/api")

	apiGroup.GET("/aircraft", h.HandleListAircraft)
	apiGroup.GET("/aircraft/:id", h.HandleGetAircraft)
	apiGroup.GET("/aircraft/:id/projection", h.HandleProjection)
	apiGroup.POST("/aircraft/:id/readings", h.HandleStoreReading)
	apiGroup.GET("/aircraft/:id/readings", h.HandleReadingHistory)
	apiGroup.POST("/aircraft/:id/predict", h.HandlePredict)
	apiGroup.GET("/aircraft/:id/predictions/latest", h.HandleLatestPrediction)

	apiGroup.GET("/airports", h.HandleListAirports)
	apiGroup.GET("/channels", h.HandleListChannels)

	apiGroup.POST("/classify", h.HandleClassify)
	apiGroup.POST("/classify/probability", h.HandleClassifyProbability)

	apiGroup.GET("/dashboard", h.HandleDashboard)
	apiGroup.GET("/reports/maintenance", h.HandleMaintenanceReport)
}
