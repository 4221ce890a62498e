package notifying

import (
	"errors"
	"fmt"
)

var (
	ErrCreateEvent         = errors.New("error creating calendar event")
	ErrLoadNotifications   = errors.New("error loading today's notification log")
	ErrPersistNotification = errors.New("error persisting notification log")
)

// CalendarError é registrado quando a agenda recusa o evento; nunca interrompe o fluxo
type CalendarError struct {
	Err      error
	ClientID string
	Details  string
}

func (e *CalendarError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("client %s: %s: %s", e.ClientID, e.Err.Error(), e.Details)
	}
	return fmt.Sprintf("client %s: %s", e.ClientID, e.Err.Error())
}

func (e *CalendarError) Unwrap() error {
	return e.Err
}

func NewCalendarError(clientID string, cause error) *CalendarError {
	return &CalendarError{
		Err:      ErrCreateEvent,
		ClientID: clientID,
		Details:  cause.Error(),
	}
}
