package domain

import "time"

type NotificationType string

const (
	NotificationTypeCalendar NotificationType = "CALENDAR"
)

type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "SENT"
	NotificationStatusFailed NotificationStatus = "FAILED"
)

type NotificationLog struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"clientId"`
	ClientName string             `json:"clientName"`
	Type       NotificationType   `json:"type"`
	Timestamp  time.Time          `json:"timestamp"`
	Status     NotificationStatus `json:"status"`
	Message    string             `json:"message"`
}

type CalendarEvent struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}
