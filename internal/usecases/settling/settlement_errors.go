package settling

import (
	"errors"
	"fmt"
)

var ErrPersistBalance = errors.New("error persisting client balance")

// StoreError indica que o novo saldo de um cliente não pôde ser gravado
type StoreError struct {
	Err      error
	Cause    error
	ClientID string
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("client %s: %s: %s", e.ClientID, e.Err.Error(), e.Cause.Error())
	}
	return fmt.Sprintf("client %s: %s", e.ClientID, e.Err.Error())
}

func (e *StoreError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NewStoreError(clientID string, cause error) *StoreError {
	return &StoreError{
		Err:      ErrPersistBalance,
		Cause:    cause,
		ClientID: clientID,
	}
}
