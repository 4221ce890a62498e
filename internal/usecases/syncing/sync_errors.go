package syncing

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("meta credentials are required")
	ErrAccountIDRequired  = errors.New("ad account ID is required")
	ErrFetchBalance       = errors.New("error fetching balance from ads platform")
	ErrListAccounts       = errors.New("error listing ad accounts")
)

// SyncError representa a falha de consulta de uma conta na plataforma de anúncios.
// Err é o sentinela do pacote e Cause o erro original da plataforma.
type SyncError struct {
	Err       error
	Cause     error
	ClientID  string
	AccountID string
}

func (e *SyncError) Error() string {
	msg := e.Err.Error()
	if e.ClientID != "" {
		msg = fmt.Sprintf("client %s: %s", e.ClientID, msg)
	}
	if e.AccountID != "" {
		msg = fmt.Sprintf("%s (account %s)", msg, e.AccountID)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Cause.Error())
	}
	return msg
}

func (e *SyncError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewSyncError(err error, clientID, accountID string, cause error) *SyncError {
	return &SyncError{
		Err:       err,
		Cause:     cause,
		ClientID:  clientID,
		AccountID: accountID,
	}
}
