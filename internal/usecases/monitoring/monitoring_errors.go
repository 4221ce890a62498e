package monitoring

import (
	"errors"
	"fmt"
)

// Erros específicos para o monitoramento de clientes
var (
	// Erros de validação
	ErrClientIDRequired = errors.New("client ID is required")
	ErrClientNotFound   = errors.New("client not found")
	ErrCompanyRequired  = errors.New("company is required")
	ErrNameRequired     = errors.New("account manager name is required")
	ErrInvalidPlatform  = errors.New("invalid platform")
	ErrNegativeSpend    = errors.New("daily spend must not be negative")

	// Erros de banco de dados
	ErrFetchClients = errors.New("error fetching clients from database")
	ErrCreateClient = errors.New("error creating client")
	ErrUpdateClient = errors.New("error updating client")
	ErrFetchLogs    = errors.New("error fetching notification logs")

	// Erros de integração
	ErrMetaNotConnected = errors.New("meta account is not connected")
	ErrMetaIntegration  = errors.New("error communicating with Meta")
	ErrMetaTokenExpired = errors.New("meta access token expired")

	ErrGenerateID = errors.New("error generating client ID")
)

// MonitorError carrega o código de erro da API junto com o cliente envolvido
type MonitorError struct {
	Err      error  // Erro base
	Code     string // Código de erro para API
	ClientID string // ID do cliente envolvido (quando aplicável)
	Details  string // Detalhes adicionais
	Cause    error  // Erro original da camada de baixo
}

func (e *MonitorError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *MonitorError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// WithCause mantém o erro original na cadeia para errors.Is/As
func (e *MonitorError) WithCause(cause error) *MonitorError {
	e.Cause = cause
	return e
}

func NewMonitorError(err error, code string, details string) *MonitorError {
	return &MonitorError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewMonitorErrorWithID(err error, code string, clientID string, details string) *MonitorError {
	return &MonitorError{
		Err:      err,
		Code:     code,
		ClientID: clientID,
		Details:  details,
	}
}
