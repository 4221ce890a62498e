package utils

import "github.com/shopspring/decimal"

// RoundCurrency arredonda um valor monetário para duas casas decimais
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}

	return d.Round(2)
}

// CentsToAmount converte um valor em centavos (como a API do Meta retorna) para a unidade da moeda
func CentsToAmount(cents string) (decimal.Decimal, error) {
	if cents == "" {
		return decimal.Zero, nil
	}

	value, err := decimal.NewFromString(cents)
	if err != nil {
		return decimal.Zero, err
	}

	return value.Div(decimal.NewFromInt(100)), nil
}
