package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/campus_alert_system/internal/config"
	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/shenikar/campus_alert_system/internal/policy"
	"github.com/shenikar/campus_alert_system/internal/push"
	"github.com/shenikar/campus_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	hub             *push.Hub
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, hub *push.Hub, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		hub:             hub,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// respondError отображает ошибку сервиса на HTTP статус и конверт ошибки.
// Внутренние ошибки не детализируются в ответе.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "insufficient permissions"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "incident not found"})
	case errors.Is(err, policy.ErrAreaRequired):
		// Ошибка конфигурации учетной записи, а не пустая выборка
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "authority account has no area configured"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}

// @Summary Report a new incident
// @Description Create a new incident report. Requires authentication.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident report"
// @Success 201 {object} CreateIncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	log := h.logger.WithField("method", "createIncident")

	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var input CreateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	incident, err := h.incidentService.CreateIncident(c.Request.Context(), claims, DTOToCreateInput(input))
	if err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateIncidentResponse{
		OK:         true,
		IncidentID: incident.ID,
		Status:     string(incident.Status),
	})
}

// @Summary List visible incidents
// @Description List incidents filtered by the caller's role and area.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListIncidentsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), claims)
	if err != nil {
		log.WithError(err).Warn("Failed to list incidents from service")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListIncidentsResponse{
		OK:     true,
		Items:  ModelsToIncidentResponses(incidents),
		Filter: filterLabel(claims.Role),
	})
}

// @Summary Get incident by ID
// @Description Get a single incident, if visible to the caller.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} GetIncidentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	incident, err := h.incidentService.GetIncident(c.Request.Context(), claims, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, GetIncidentResponse{
		OK:       true,
		Incident: ModelToIncidentResponse(incident),
	})
}

// @Summary Update incident status
// @Description Apply a lifecycle status transition to an incident.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateStatusRequest true "Status update request"
// @Success 200 {object} UpdateStatusResponse
// @Failure 400 {object} ErrorResponse "Invalid status or transition"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id}/status [patch]
func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateStatus").WithField("id", id)

	claims, ok := claimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var input UpdateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	incident, err := h.incidentService.UpdateStatus(c.Request.Context(), claims, id, models.Status(input.NewStatus))
	if err != nil {
		log.WithError(err).Warn("Failed to update incident status in service")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdateStatusResponse{
		OK:         true,
		IncidentID: incident.ID,
		Status:     string(incident.Status),
	})
}

// @Summary Attach a push connection
// @Description Upgrade to a websocket connection receiving incident notifications.
// @Tags Push
// @Security BearerAuth
// @Success 101 "Switching Protocols"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /ws [get]
func (h *Handler) attachPush(c *gin.Context) {
	log := h.logger.WithField("method", "attachPush")

	if _, ok := claimsFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.hub.Attach(c.Writer, c.Request); err != nil {
		log.WithError(err).Warn("Failed to attach push connection")
	}
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
