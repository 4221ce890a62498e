package domain

type CriticalClientInsight struct {
	ClientID string `json:"clientId"`
	Reason   string `json:"reason"`
	Action   string `json:"action"`
}

type BudgetInsights struct {
	Summary         string                  `json:"summary"`
	CriticalClients []CriticalClientInsight `json:"criticalClients"`
}
