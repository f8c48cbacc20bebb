package v1

import (
	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/shenikar/campus_alert_system/internal/service"
)

// DTOToCreateInput преобразует DTO создания во входные данные сервиса
func DTOToCreateInput(dto CreateIncidentRequest) service.CreateIncidentInput {
	return service.CreateIncidentInput{
		Kind:        models.Kind(dto.Kind),
		Description: dto.Description,
		Location:    dto.Location,
		Urgency:     models.Urgency(dto.Urgency),
		Area:        dto.Area,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	history := make([]HistoryEntryResponse, len(model.History))
	for i, entry := range model.History {
		history[i] = HistoryEntryResponse{
			Action: entry.Action,
			At:     entry.At,
			Actor:  entry.Actor,
		}
	}
	return &IncidentResponse{
		IncidentID:        model.ID,
		Kind:              string(model.Kind),
		Area:              model.Area,
		Description:       model.Description,
		Location:          model.Location,
		Urgency:           string(model.Urgency),
		Status:            string(model.Status),
		ReporterSubjectID: model.ReporterSubjectID,
		ReporterEmail:     model.ReporterEmail,
		CreatedAt:         model.CreatedAt,
		History:           history,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// filterLabel описывает, какой фильтр видимости был применен к списку
func filterLabel(role models.Role) string {
	switch role {
	case models.RoleStudent:
		return "own"
	case models.RoleAuthority:
		return "area"
	default:
		return "all"
	}
}
