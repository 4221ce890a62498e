package domain

import "github.com/shopspring/decimal"

// AdAccount é uma conta de anúncios visível para a credencial do Meta
type AdAccount struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Status   int             `json:"status"`
}

// MetaCredentials é o token de acesso usado nas chamadas à Graph API
type MetaCredentials struct {
	AccessToken string
}

func (c *MetaCredentials) IsEmpty() bool {
	return c == nil || c.AccessToken == ""
}

type MetaConnectRequest struct {
	AccessToken string `json:"accessToken"`
}
