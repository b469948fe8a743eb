package financeService

import (
	"context"

	"FintechAgent/internal/api/finance"
	"FintechAgent/internal/entity"
	"github.com/sirupsen/logrus"
)

// adviceMaxLength is the generation budget for advisor answers.
const adviceMaxLength = 512

type IFinanceService interface {
	Analyze(transactions []entity.Transaction) finance.AnalysisResponse
	Budget(ctx context.Context, transactions []entity.Transaction) finance.BudgetResponse
	Investment(ctx context.Context, req finance.InvestmentRequest) string
	CompoundInterest(principal, rate, years float64) float64
	Explain(ctx context.Context, term string) string
}

// Generator produces displayable advice text; failures are already turned
// into apology strings.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) string
}

type financeService struct {
	log       *logrus.Logger
	generator Generator
}

func New(log *logrus.Logger, generator Generator) IFinanceService {
	return &financeService{
		log:       log,
		generator: generator,
	}
}
