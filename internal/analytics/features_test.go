package analytics

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"budgetwise/internal/money"
)

type budgetScenario struct {
	budget BudgetInput
	txns   []Transaction
	eval   BudgetEvaluation
}

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

func (s *budgetScenario) aBudget(period, amount, category, start string) error {
	allotted, err := money.Parse(amount)
	if err != nil {
		return err
	}
	startDate, err := parseDay(start)
	if err != nil {
		return err
	}
	p := Period(period)
	s.budget = BudgetInput{
		ID:          "scenario",
		Name:        category,
		Period:      p,
		Allotted:    allotted,
		StartDate:   startDate,
		EndDate:     PeriodEnd(startDate, p),
		CategoryIDs: []string{category},
	}
	return nil
}

func (s *budgetScenario) aTransaction(kind, amount, category, on string) error {
	cents, err := money.Parse(amount)
	if err != nil {
		return err
	}
	at, err := parseDay(on)
	if err != nil {
		return err
	}
	s.txns = append(s.txns, Transaction{
		ID:         strconv.Itoa(len(s.txns) + 1),
		OwnerID:    owner,
		Kind:       Kind(kind),
		Amount:     cents,
		CategoryID: category,
		Date:       at,
	})
	return nil
}

func (s *budgetScenario) evaluatedOn(on string) error {
	now, err := parseDay(on)
	if err != nil {
		return err
	}
	s.budget.Transactions = s.txns
	s.eval, err = s.budget.Evaluate(owner, now)
	return err
}

func (s *budgetScenario) spentShouldBe(want string) error {
	if got := s.eval.Spent.String(); got != want {
		return fmt.Errorf("spent = %s, want %s", got, want)
	}
	return nil
}

func (s *budgetScenario) remainingShouldBe(want string) error {
	if got := s.eval.Remaining.String(); got != want {
		return fmt.Errorf("remaining = %s, want %s", got, want)
	}
	return nil
}

func (s *budgetScenario) displayedPercentageShouldBe(want float64) error {
	if got := s.eval.DisplayPercentage(); got != want {
		return fmt.Errorf("displayed percentage = %v, want %v", got, want)
	}
	return nil
}

func (s *budgetScenario) statusShouldBe(want string) error {
	if got := string(s.eval.Status); got != want {
		return fmt.Errorf("status = %s, want %s", got, want)
	}
	return nil
}

func (s *budgetScenario) budgetShouldEndOn(want string) error {
	end, err := parseDay(want)
	if err != nil {
		return err
	}
	if !s.budget.EndDate.Equal(end) {
		return fmt.Errorf("end date = %s, want %s", s.budget.EndDate.Format(time.DateOnly), want)
	}
	return nil
}

func initializeBudgetScenario(sc *godog.ScenarioContext) {
	s := &budgetScenario{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*s = budgetScenario{}
		return ctx, nil
	})

	sc.Step(`^an? (monthly|quarterly|yearly) budget of "([^"]*)" for "([^"]*)" starting (\d{4}-\d{2}-\d{2})$`, s.aBudget)
	sc.Step(`^an? (income|expense) of "([^"]*)" in "([^"]*)" on (\d{4}-\d{2}-\d{2})$`, s.aTransaction)
	sc.Step(`^the budget is evaluated on (\d{4}-\d{2}-\d{2})$`, s.evaluatedOn)
	sc.Step(`^spent should be "([^"]*)"$`, s.spentShouldBe)
	sc.Step(`^remaining should be "([^"]*)"$`, s.remainingShouldBe)
	sc.Step(`^the displayed percentage should be (\d+(?:\.\d+)?)$`, s.displayedPercentageShouldBe)
	sc.Step(`^the status should be "(\w+)"$`, s.statusShouldBe)
	sc.Step(`^the budget should end on (\d{4}-\d{2}-\d{2})$`, s.budgetShouldEndOn)
}

func TestBudgetFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "budget-progress",
		ScenarioInitializer: initializeBudgetScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
