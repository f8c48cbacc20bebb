package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/campus_alert_system/internal/models"
)

// Человекочитаемые подписи для текстовых уведомлений
var kindLabels = map[models.Kind]string{
	models.KindMedicalEmergency: "Medical Emergency",
	models.KindSecurity:         "Security",
	models.KindInfrastructure:   "Infrastructure",
	models.KindOther:            "Other",
}

var urgencyLabels = map[models.Urgency]string{
	models.UrgencyLow:      "Low",
	models.UrgencyMedium:   "Medium",
	models.UrgencyHigh:     "High",
	models.UrgencyCritical: "Critical",
}

var statusLabels = map[models.Status]string{
	models.StatusPending:    "Pending",
	models.StatusInProgress: "In Progress",
	models.StatusResolved:   "Resolved",
	models.StatusCancelled:  "Cancelled",
}

const noticeDivider = "----------------------------------------"

func label[K comparable](labels map[K]string, key K) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return fmt.Sprintf("%v", key)
}

// createdNotice формирует тему и текст уведомления о новом инциденте
func createdNotice(incident *models.Incident) (string, string) {
	subject := fmt.Sprintf("[%s] %s - %s",
		label(urgencyLabels, incident.Urgency),
		label(kindLabels, incident.Kind),
		incident.ID,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "NEW INCIDENT REPORTED - CAMPUS ALERT\n\n")
	fmt.Fprintln(&b, noticeDivider)
	fmt.Fprintf(&b, "ID: %s\n", incident.ID)
	fmt.Fprintf(&b, "Kind: %s\n", label(kindLabels, incident.Kind))
	fmt.Fprintf(&b, "Urgency: %s\n", label(urgencyLabels, incident.Urgency))
	fmt.Fprintf(&b, "Status: %s\n", label(statusLabels, incident.Status))
	fmt.Fprintf(&b, "Area: %s\n", incident.Area)
	fmt.Fprintln(&b, noticeDivider)
	fmt.Fprintf(&b, "\nLOCATION:\n%s\n", incident.Location)
	fmt.Fprintf(&b, "\nDESCRIPTION:\n%s\n", incident.Description)
	fmt.Fprintf(&b, "\nREPORTED AT:\n%s\n", incident.CreatedAt.Format(time.RFC1123))
	if incident.ReporterEmail != "" {
		fmt.Fprintf(&b, "\nREPORTER CONTACT:\n%s\n", incident.ReporterEmail)
	}
	fmt.Fprintf(&b, "\nOpen the administration panel to manage this incident.\n")

	return subject, b.String()
}

// statusNotice формирует тему и текст уведомления о смене статуса
func statusNotice(incident *models.Incident, previous models.Status) (string, string) {
	subject := fmt.Sprintf("Status updated: %s -> %s",
		incident.ID,
		label(statusLabels, incident.Status),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "INCIDENT UPDATE - CAMPUS ALERT\n\n")
	fmt.Fprintln(&b, noticeDivider)
	fmt.Fprintf(&b, "ID: %s\n", incident.ID)
	fmt.Fprintf(&b, "Kind: %s\n", label(kindLabels, incident.Kind))
	fmt.Fprintf(&b, "Area: %s\n", incident.Area)
	fmt.Fprintf(&b, "Location: %s\n", incident.Location)
	fmt.Fprintln(&b, noticeDivider)
	fmt.Fprintf(&b, "\nSTATUS CHANGE:\n   %s -> %s\n", previous, incident.Status)
	fmt.Fprintf(&b, "\nCURRENT STATUS: %s\n", label(statusLabels, incident.Status))
	fmt.Fprintf(&b, "\nORIGINAL DESCRIPTION:\n%s\n", incident.Description)
	fmt.Fprintf(&b, "\nUPDATED AT:\n%s\n", time.Now().UTC().Format(time.RFC1123))
	if incident.ReporterEmail != "" {
		fmt.Fprintf(&b, "\nREPORTER CONTACT:\n%s\n", incident.ReporterEmail)
	}

	return subject, b.String()
}

// escalationNotice формирует тему и текст уведомления об эскалации срочности
func escalationNotice(incident *models.Incident, previous models.Urgency) (string, string) {
	subject := fmt.Sprintf("Urgency escalated: %s -> %s",
		incident.ID,
		label(urgencyLabels, incident.Urgency),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "INCIDENT SLA ESCALATION - CAMPUS ALERT\n\n")
	fmt.Fprintln(&b, noticeDivider)
	fmt.Fprintf(&b, "ID: %s\n", incident.ID)
	fmt.Fprintf(&b, "Kind: %s\n", label(kindLabels, incident.Kind))
	fmt.Fprintf(&b, "Area: %s\n", incident.Area)
	fmt.Fprintf(&b, "Status: %s\n", label(statusLabels, incident.Status))
	fmt.Fprintln(&b, noticeDivider)
	fmt.Fprintf(&b, "\nURGENCY CHANGE:\n   %s -> %s\n", previous, incident.Urgency)
	fmt.Fprintf(&b, "\nThe incident has been waiting since %s without resolution.\n",
		incident.CreatedAt.Format(time.RFC1123))

	return subject, b.String()
}
