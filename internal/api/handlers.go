package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/minaret/internal/alarm"
	"github.com/UnknownOlympus/minaret/internal/geodesy"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/service"
	"github.com/UnknownOlympus/minaret/internal/timings"
	"github.com/gin-gonic/gin"
)

type setAlarmRequest struct {
	Time string `json:"time" binding:"required"`
}

type qiblaResponse struct {
	models.QiblaResult
	NeedleDegrees *float64 `json:"needle_degrees,omitempty"`
}

type hijriResponse struct {
	models.HijriDate
	Label string `json:"label"`
}

type locationResponse struct {
	models.Place
	Label string `json:"label"`
}

func (h *Handler) prayerTimes(c *gin.Context) (int, any, *APIError) {
	coords, apiErr := optionalCoordinates(c)
	if apiErr != nil {
		return 0, nil, apiErr
	}

	result, err := h.prayers.PrayerTimes(c.Request.Context(), coords)
	if err != nil {
		return 0, nil, h.internal(c, err)
	}

	return http.StatusOK, result, nil
}

func (h *Handler) listAlarms(c *gin.Context) (int, any, *APIError) {
	return http.StatusOK, h.alarms.Alarms(c.Request.Context()), nil
}

func (h *Handler) setAlarm(c *gin.Context) (int, any, *APIError) {
	prayer, err := models.ParsePrayerName(c.Param("prayer"))
	if err != nil {
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	var request setAlarmRequest
	if err = c.ShouldBindJSON(&request); err != nil {
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	picked, err := timings.ParseClock(request.Time, h.now())
	if err != nil {
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	result, err := h.alarms.SetAlarm(c.Request.Context(), prayer, picked)
	switch {
	case err == nil:
		return http.StatusCreated, result, nil
	case errors.Is(err, alarm.ErrUnknownPrayer):
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, alarm.ErrPermissionDenied):
		return 0, nil, &APIError{Code: http.StatusForbidden, Message: alarm.ErrPermissionDenied.Error()}
	case errors.Is(err, alarm.ErrSchedulingFailed):
		return 0, nil, &APIError{Code: http.StatusBadGateway, Message: alarm.ErrSchedulingFailed.Error()}
	default:
		return 0, nil, h.internal(c, err)
	}
}

func (h *Handler) removeAlarm(c *gin.Context) (int, any, *APIError) {
	prayer, err := models.ParsePrayerName(c.Param("prayer"))
	if err != nil {
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err = h.alarms.RemoveAlarm(c.Request.Context(), prayer); err != nil {
		return 0, nil, h.internal(c, err)
	}

	return http.StatusNoContent, nil, nil
}

func (h *Handler) qibla(c *gin.Context) (int, any, *APIError) {
	coords, apiErr := requiredCoordinates(c)
	if apiErr != nil {
		return 0, nil, apiErr
	}

	result, err := h.prayers.Qibla(*coords)
	if err != nil {
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	response := qiblaResponse{QiblaResult: *result}

	if raw, ok := c.GetQuery("heading"); ok {
		heading, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, nil, &APIError{Code: http.StatusBadRequest, Message: "heading must be a number"}
		}
		needle := geodesy.NeedleAngle(result.BearingDegrees, heading)
		response.NeedleDegrees = &needle
	}

	return http.StatusOK, response, nil
}

func (h *Handler) hijri(c *gin.Context) (int, any, *APIError) {
	date := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return 0, nil, &APIError{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
		}
		date = parsed
	}

	hijri, err := h.prayers.HijriDate(c.Request.Context(), date)
	if err != nil {
		return 0, nil, &APIError{Code: http.StatusBadGateway, Message: "hijri date is unavailable"}
	}

	return http.StatusOK, hijriResponse{HijriDate: *hijri, Label: hijri.String()}, nil
}

func (h *Handler) location(c *gin.Context) (int, any, *APIError) {
	coords, apiErr := requiredCoordinates(c)
	if apiErr != nil {
		return 0, nil, apiErr
	}

	place, err := h.prayers.Location(c.Request.Context(), *coords)
	switch {
	case err == nil:
		return http.StatusOK, locationResponse{Place: *place, Label: place.Label()}, nil
	case errors.Is(err, models.ErrInvalidCoordinates):
		return 0, nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, service.ErrNoGeocoder):
		return 0, nil, &APIError{Code: http.StatusServiceUnavailable, Message: err.Error()}
	default:
		return 0, nil, &APIError{Code: http.StatusBadGateway, Message: "location is unavailable"}
	}
}

func (h *Handler) internal(c *gin.Context, err error) *APIError {
	if errors.Is(err, models.ErrInvalidCoordinates) {
		return &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	h.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)

	return &APIError{Code: http.StatusInternalServerError, Message: "internal error"}
}

// optionalCoordinates accepts either both lat and lon or neither.
func optionalCoordinates(c *gin.Context) (*models.Coordinates, *APIError) {
	_, hasLat := c.GetQuery("lat")
	_, hasLon := c.GetQuery("lon")
	if !hasLat && !hasLon {
		return nil, nil
	}

	return requiredCoordinates(c)
}

func requiredCoordinates(c *gin.Context) (*models.Coordinates, *APIError) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return nil, &APIError{Code: http.StatusBadRequest, Message: "lat must be a number"}
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return nil, &APIError{Code: http.StatusBadRequest, Message: "lon must be a number"}
	}

	coords := &models.Coordinates{Latitude: lat, Longitude: lon}
	if err = coords.Validate(); err != nil {
		return nil, &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	return coords, nil
}
