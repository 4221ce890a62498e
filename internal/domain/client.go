package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Platform string

const (
	PlatformGoogleAds   Platform = "Google Ads"
	PlatformMetaAds     Platform = "Meta Ads"
	PlatformTikTokAds   Platform = "TikTok Ads"
	PlatformLinkedInAds Platform = "LinkedIn Ads"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformGoogleAds, PlatformMetaAds, PlatformTikTokAds, PlatformLinkedInAds:
		return true
	}
	return false
}

// Client representa uma conta de anúncios monitorada.
// Name é o responsável pela conta e Company é o cliente final.
type Client struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Company        string          `json:"company"`
	Platform       Platform        `json:"platform"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	DailySpend     decimal.Decimal `json:"dailySpend"`
	Currency       string          `json:"currency"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	MetaAccountID  *string         `json:"metaAccountId,omitempty"`
	IsSynced       bool            `json:"isSynced"`
}

// IsMetaSynced indica se o saldo vem da API do Meta em vez da liquidação diária
func (c Client) IsMetaSynced() bool {
	return c.IsSynced && c.MetaAccountID != nil && *c.MetaAccountID != ""
}

type NewClientRequest struct {
	Name           string          `json:"name"`
	Company        string          `json:"company"`
	Platform       Platform        `json:"platform"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	DailySpend     decimal.Decimal `json:"dailySpend"`
	Currency       string          `json:"currency"`
}

type UpdateClientRequest struct {
	ID             string           `json:"id"`
	CurrentBalance *decimal.Decimal `json:"currentBalance,omitempty"`
	LastUpdated    *time.Time       `json:"lastUpdated,omitempty"`
	MetaAccountID  *string          `json:"metaAccountId,omitempty"`
	IsSynced       *bool            `json:"isSynced,omitempty"`
}

type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

type LinkMetaAccountRequest struct {
	AccountID string `json:"accountId"`
}
