package financeService

import (
	"context"
	"strings"
	"testing"

	"FintechAgent/internal/api/finance"
	"FintechAgent/internal/entity"
	"FintechAgent/pkg/log"
)

type recordingGenerator struct {
	prompts []string
	lengths []int
	reply   string
}

func (g *recordingGenerator) Generate(_ context.Context, prompt string, maxLength int) string {
	g.prompts = append(g.prompts, prompt)
	g.lengths = append(g.lengths, maxLength)
	return g.reply
}

func sampleTransactions() []entity.Transaction {
	return []entity.Transaction{
		{Date: "2025-05-01", Category: "Food", Amount: 180},
		{Date: "2025-05-03", Category: "Transport", Amount: 70},
		{Date: "2025-05-04", Category: "Rent", Amount: 500},
		{Date: "2025-05-10", Category: "Entertainment", Amount: 60},
		{Date: "2025-05-15", Category: "Utilities", Amount: 100},
		{Date: "2025-05-20", Category: "Food", Amount: 150},
		{Date: "2025-05-23", Category: "Subscriptions", Amount: 40},
		{Date: "2025-05-26", Category: "Transport", Amount: 60},
	}
}

func TestAnalyze_SortsByTotal(t *testing.T) {
	svc := New(log.NewDiscardLogger(), &recordingGenerator{})

	got := svc.Analyze(sampleTransactions())

	want := []finance.CategoryAmount{
		{Category: "Rent", Amount: 500},
		{Category: "Food", Amount: 330},
		{Category: "Transport", Amount: 130},
		{Category: "Utilities", Amount: 100},
		{Category: "Entertainment", Amount: 60},
		{Category: "Subscriptions", Amount: 40},
	}
	if len(got.ReadyForVisualization) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got.ReadyForVisualization), len(want))
	}
	for i := range want {
		if got.ReadyForVisualization[i] != want[i] {
			t.Errorf("position %d = %+v, want %+v", i, got.ReadyForVisualization[i], want[i])
		}
	}
	if got.Summary["Food"] != 330 {
		t.Errorf("Food total = %v", got.Summary["Food"])
	}
}

func TestAnalyze_TiesOrderedByName(t *testing.T) {
	svc := New(log.NewDiscardLogger(), &recordingGenerator{})

	got := svc.Analyze([]entity.Transaction{
		{Category: "Water", Amount: 10},
		{Category: "Gas", Amount: 10},
	})
	if got.ReadyForVisualization[0].Category != "Gas" {
		t.Errorf("got %+v, want Gas first", got.ReadyForVisualization)
	}
}

func TestBudget_PromptCarriesSummary(t *testing.T) {
	gen := &recordingGenerator{reply: "Spend less on food."}
	svc := New(log.NewDiscardLogger(), gen)

	got := svc.Budget(context.Background(), sampleTransactions())

	if got.Recommendation != "Spend less on food." {
		t.Errorf("recommendation = %q", got.Recommendation)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], `"Food":330`) || !strings.Contains(gen.prompts[0], "One saving goal") {
		t.Errorf("prompt = %q", gen.prompts[0])
	}
	if gen.lengths[0] != adviceMaxLength {
		t.Errorf("max length = %d", gen.lengths[0])
	}
}

func TestInvestmentPrompt(t *testing.T) {
	prompt := InvestmentPrompt(finance.InvestmentRequest{
		Age:               30,
		RiskAppetite:      "Moderate",
		Goal:              "Retirement savings",
		MonthlyInvestment: 300,
	})

	for _, want := range []string{"- Age: 30", "- Risk Appetite: Moderate", "- Goal: Retirement savings", "Capacity: $300\n"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestCompoundInterest(t *testing.T) {
	svc := New(log.NewDiscardLogger(), &recordingGenerator{})

	tests := []struct {
		principal, rate, years, want float64
	}{
		{1000, 5, 10, 1628.89},
		{1000, 0, 10, 1000},
		{2500, 7.5, 0, 2500},
		{100, 10, 2, 121},
	}
	for _, tt := range tests {
		if got := svc.CompoundInterest(tt.principal, tt.rate, tt.years); got != tt.want {
			t.Errorf("CompoundInterest(%v, %v, %v) = %v, want %v", tt.principal, tt.rate, tt.years, got, tt.want)
		}
	}
}

func TestExplain(t *testing.T) {
	gen := &recordingGenerator{reply: "An ETF is a basket of investments."}
	svc := New(log.NewDiscardLogger(), gen)

	if got := svc.Explain(context.Background(), "  ETF "); got != gen.reply {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(gen.prompts[0], `"ETF"`) {
		t.Errorf("prompt = %q", gen.prompts[0])
	}
}
