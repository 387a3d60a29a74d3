// Package api exposes prayer times, alarms and the Qibla compass over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/minaret/internal/alarm"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/service"
	"github.com/gin-gonic/gin"
)

// AlarmService is implemented by alarm.Service.
type AlarmService interface {
	Alarms(ctx context.Context) []models.AlarmRecord
	SetAlarm(ctx context.Context, prayer models.PrayerName, picked time.Time) (*alarm.SetResult, error)
	RemoveAlarm(ctx context.Context, prayer models.PrayerName) error
}

// PrayerService is implemented by service.PrayerService.
type PrayerService interface {
	PrayerTimes(ctx context.Context, coords *models.Coordinates) (*service.PrayerTimesResult, error)
	Qibla(coords models.Coordinates) (*models.QiblaResult, error)
	HijriDate(ctx context.Context, date time.Time) (*models.HijriDate, error)
	Location(ctx context.Context, coords models.Coordinates) (*models.Place, error)
}

// APIError is returned by handlers and rendered as {"error": message}.
type APIError struct {
	Code    int
	Message string
}

type handlerFunc func(c *gin.Context) (int, any, *APIError)

// Handler serves the /api/v1 routes.
type Handler struct {
	log     *slog.Logger
	alarms  AlarmService
	prayers PrayerService
	now     func() time.Time
}

// NewHandler creates a new instance of Handler.
func NewHandler(log *slog.Logger, alarms AlarmService, prayers PrayerService) *Handler {
	return &Handler{log: log, alarms: alarms, prayers: prayers, now: time.Now}
}

// NewRouter builds the gin engine with recovery, request logging and all routes.
func NewRouter(log *slog.Logger, h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	v1 := router.Group("/api/v1")
	v1.GET("/prayer-times", wrap(h.prayerTimes))
	v1.GET("/alarms", wrap(h.listAlarms))
	v1.PUT("/alarms/:prayer", wrap(h.setAlarm))
	v1.DELETE("/alarms/:prayer", wrap(h.removeAlarm))
	v1.GET("/qibla", wrap(h.qibla))
	v1.GET("/hijri", wrap(h.hijri))
	v1.GET("/location", wrap(h.location))

	return router
}

func wrap(fn handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, body, apiErr := fn(c)
		if apiErr != nil {
			c.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		if body == nil {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.Log(c.Request.Context(), level, "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
