package finance

type TransactionRequest struct {
	Date     string  `json:"date"`
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type AnalysisRequest struct {
	Transactions []TransactionRequest `json:"transactions" validate:"required,min=1,dive"`
}

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type AnalysisResponse struct {
	Summary               map[string]float64 `json:"summary"`
	ReadyForVisualization []CategoryAmount   `json:"ready_for_visualization"`
}

type BudgetResponse struct {
	Analysis       AnalysisResponse `json:"analysis"`
	Recommendation string           `json:"recommendation"`
}

type InvestmentRequest struct {
	Age               int     `json:"age" validate:"required,gt=0,lte=120"`
	RiskAppetite      string  `json:"risk_appetite" validate:"required,oneof=Low Moderate High low moderate high"`
	Goal              string  `json:"goal" validate:"required,max=500"`
	MonthlyInvestment float64 `json:"monthly_investment" validate:"gte=0"`
}

type AdviceResponse struct {
	Advice string `json:"advice"`
}

type CompoundInterestRequest struct {
	Principal float64 `json:"principal" validate:"gt=0"`
	Rate      float64 `json:"rate" validate:"gte=0,lte=1000"`
	Years     float64 `json:"years" validate:"gte=0,lte=100"`
}

type CompoundInterestResponse struct {
	FutureValue float64 `json:"future_value"`
}

type ExplainRequest struct {
	Term string `json:"term" validate:"required,max=200"`
}
