package handler

import (
	"net/http"
	"strconv"

	"patient-monitoring-service/internal/delivery/dto"
	"patient-monitoring-service/internal/delivery/http/middleware"
	"patient-monitoring-service/internal/usecase"
	"patient-monitoring-service/pkg/response"
	"patient-monitoring-service/pkg/validator"
)

type HealthMetricHandler struct {
	metricUsecase usecase.HealthMetricUsecase
	validator     *validator.CustomValidator
}

func NewHealthMetricHandler(metricUsecase usecase.HealthMetricUsecase, validator *validator.CustomValidator) *HealthMetricHandler {
	return &HealthMetricHandler{
		metricUsecase: metricUsecase,
		validator:     validator,
	}
}

// Record stores a new reading for the caller
// @Summary Record a health metric
// @Tags Health Metrics
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RecordHealthMetricRequest true "Reading"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /health-metrics [post]
func (h *HealthMetricHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordHealthMetricRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	metric, err := h.metricUsecase.Record(r.Context(), middleware.IdentityFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err, "Failed to record health metric")
		return
	}

	response.Success(w, http.StatusCreated, "Health metric recorded successfully", metric)
}

// ListByUser returns all readings of a user, newest first
// @Summary List health metrics of a user
// @Tags Health Metrics
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/health-metrics [get]
func (h *HealthMetricHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	metrics, err := h.metricUsecase.ListByUser(r.Context(), middleware.IdentityFromContext(r.Context()), userID)
	if err != nil {
		writeError(w, err, "Failed to list health metrics")
		return
	}

	response.Success(w, http.StatusOK, "Health metrics retrieved successfully", metrics)
}

// ListRecentByType returns the latest readings of one type
// @Summary List recent health metrics by type
// @Tags Health Metrics
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Param type query string true "Metric type"
// @Param limit query int false "Maximum readings (1-100, default 10)"
// @Success 200 {object} response.Response
// @Router /users/{id}/health-metrics/recent [get]
func (h *HealthMetricHandler) ListRecentByType(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	query := dto.RecentHealthMetricsQuery{
		Type:  r.URL.Query().Get("type"),
		Limit: usecase.DefaultRecentMetricsLimit,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"limit": "limit must be a number"})
			return
		}
		query.Limit = limit
	}

	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	metrics, err := h.metricUsecase.ListRecentByType(r.Context(), middleware.IdentityFromContext(r.Context()), userID, &query)
	if err != nil {
		writeError(w, err, "Failed to list recent health metrics")
		return
	}

	response.Success(w, http.StatusOK, "Health metrics retrieved successfully", metrics)
}

// ListAbnormal returns the readings flagged as abnormal
// @Summary List abnormal health metrics
// @Tags Health Metrics
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/health-metrics/abnormal [get]
func (h *HealthMetricHandler) ListAbnormal(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	metrics, err := h.metricUsecase.ListAbnormal(r.Context(), middleware.IdentityFromContext(r.Context()), userID)
	if err != nil {
		writeError(w, err, "Failed to list abnormal health metrics")
		return
	}

	response.Success(w, http.StatusOK, "Abnormal health metrics retrieved successfully", metrics)
}
