package financeService

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"FintechAgent/internal/api/finance"
	"FintechAgent/internal/entity"
	contextPkg "FintechAgent/pkg/context"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Analyze totals spending per category, largest first with ties by name.
func (s *financeService) Analyze(transactions []entity.Transaction) finance.AnalysisResponse {
	summary := make(map[string]float64)
	for _, tx := range transactions {
		summary[tx.Category] += tx.Amount
	}

	totals := make([]entity.CategoryTotal, 0, len(summary))
	for category, amount := range summary {
		totals = append(totals, entity.CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Category < totals[j].Category
	})

	ready := make([]finance.CategoryAmount, 0, len(totals))
	for _, total := range totals {
		ready = append(ready, finance.CategoryAmount{Category: total.Category, Amount: total.Amount})
	}

	return finance.AnalysisResponse{
		Summary:               summary,
		ReadyForVisualization: ready,
	}
}

func (s *financeService) Budget(ctx context.Context, transactions []entity.Transaction) finance.BudgetResponse {
	analysis := s.Analyze(transactions)

	spending, err := json.Marshal(analysis.Summary)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to encode spending summary")
		spending = []byte("{}")
	}

	return finance.BudgetResponse{
		Analysis:       analysis,
		Recommendation: s.generator.Generate(ctx, BudgetPrompt(string(spending)), adviceMaxLength),
	}
}

func (s *financeService) Investment(ctx context.Context, req finance.InvestmentRequest) string {
	return s.generator.Generate(ctx, InvestmentPrompt(req), adviceMaxLength)
}

// CompoundInterest returns principal grown at rate percent per year for
// years, compounded yearly and rounded to cents.
func (s *financeService) CompoundInterest(principal, rate, years float64) float64 {
	value := principal * math.Pow(1+rate/100, years)
	return math.Round(value*100) / 100
}

func (s *financeService) Explain(ctx context.Context, term string) string {
	return s.generator.Generate(ctx, ExplainPrompt(term), adviceMaxLength)
}

func BudgetPrompt(spendingSummary string) string {
	return fmt.Sprintf(`You are a financial assistant. Here is the user's spending data (monthly):
%s

Based on this, suggest:
1. A monthly budget for each category
2. One saving goal
3. Tips to stick to the budget`, spendingSummary)
}

func InvestmentPrompt(req finance.InvestmentRequest) string {
	return fmt.Sprintf(`You are a robo-investor advisor. Here is the user's profile:
- Age: %d
- Risk Appetite: %s
- Goal: %s
- Monthly Investment Capacity: $%s

Recommend a diversified ETF or stock portfolio.
Explain why each asset is chosen.`, req.Age, req.RiskAppetite, strings.TrimSpace(req.Goal), formatAmount(req.MonthlyInvestment))
}

func ExplainPrompt(term string) string {
	return fmt.Sprintf("Explain the financial term %q to a beginner in a short paragraph with one everyday example.", strings.TrimSpace(term))
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
