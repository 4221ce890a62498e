package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/domain"
)

const (
	adAccountFields = "id,name,amount_remaining,currency,account_status"
	adAccountsLimit = "100"
	maxPages        = 20
)

// ListAdAccounts lista as contas de anúncio do usuário do token, seguindo a paginação
func (c *MetaClient) ListAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error) {
	if accessToken == "" {
		return nil, ErrEmptyToken
	}

	params := url.Values{}
	params.Add("fields", adAccountFields)
	params.Add("limit", adAccountsLimit)
	params.Add("access_token", accessToken)

	body, err := c.get(ctx, "me/adaccounts", params)
	if err != nil {
		return nil, err
	}

	accounts := make([]metadomain.AdAccount, 0)
	for page := 1; ; page++ {
		var response metadomain.ResponseAdAccount
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON")
			return nil, err
		}

		accounts = append(accounts, response.Data...)

		if response.Paging == nil || response.Paging.Next == "" {
			break
		}
		if page >= maxPages {
			logrus.WithField("pages", page).Warn("Limite de páginas atingido ao listar contas de anúncio")
			break
		}

		body, err = c.getURL(ctx, response.Paging.Next)
		if err != nil {
			return nil, err
		}
	}

	return accounts, nil
}

// GetAdAccount busca uma conta de anúncio pelo ID, com ou sem o prefixo act_
func (c *MetaClient) GetAdAccount(ctx context.Context, accountID, accessToken string) (*metadomain.AdAccount, error) {
	if accessToken == "" {
		return nil, ErrEmptyToken
	}
	if accountID == "" {
		return nil, fmt.Errorf("ID da conta de anúncio não pode ser vazio")
	}

	params := url.Values{}
	params.Add("fields", adAccountFields)
	params.Add("access_token", accessToken)

	body, err := c.get(ctx, NormalizeAccountID(accountID), params)
	if err != nil {
		return nil, err
	}

	var account metadomain.AdAccount
	if err := json.Unmarshal(body, &account); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	return &account, nil
}

func NormalizeAccountID(accountID string) string {
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	return "act_" + accountID
}
