package metadomain

// AdAccount é a conta de anúncios como retornada pela Graph API.
// AmountRemaining vem em centavos, como string.
type AdAccount struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AmountRemaining string `json:"amount_remaining"`
	Currency        string `json:"currency"`
	AccountStatus   int    `json:"account_status"`
}

type Paging struct {
	Next string `json:"next,omitempty"`
}

type ResponseAdAccount struct {
	Data   []AdAccount `json:"data"`
	Paging *Paging     `json:"paging,omitempty"`
}
