package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
)

// Engine materializes recurring expense definitions into concrete Expense
// rows. Each run catches up every occurrence that fell due since the
// definition's cursor (LastRun, or StartDate before the first run), so the
// result is the same however long the process was down. The cursor is
// persisted only after a definition's occurrences all succeed; a crash
// between expense creation and cursor persistence can therefore replay that
// definition's occurrences on the next run (at-least-once, single instance
// assumed).
type Engine struct {
	store    Store
	dispatch Dispatcher
}

func NewEngine(store Store, dispatch Dispatcher) *Engine {
	return &Engine{store: store, dispatch: dispatch}
}

// Run processes every active definition once against the reference instant
// now. Definitions are independent: one failing is logged and skipped, the
// rest continue, and the failed definition retries on the next trigger
// because its cursor was not advanced.
func (e *Engine) Run(now time.Time) {
	defs, err := e.store.ListActiveRecurring()
	if err != nil {
		log.Printf("scheduler: list recurring definitions: %v", err)
		return
	}

	materialized := 0
	for i := range defs {
		n, err := e.processDefinition(&defs[i], now)
		materialized += n
		if err != nil {
			log.Printf("scheduler: definition %d (%s): %v", defs[i].ID, defs[i].Name, err)
		}
	}
	log.Printf("scheduler: run complete, %d definitions, %d expenses materialized", len(defs), materialized)
}

// processDefinition advances one definition's cursor occurrence by
// occurrence, returning how many expenses were materialized.
func (e *Engine) processDefinition(def *models.RecurringExpense, now time.Time) (int, error) {
	if !def.Active {
		return 0, nil
	}
	if def.StartDate.After(now) {
		// not yet active
		return 0, nil
	}

	cursor := def.StartDate
	if def.LastRun != nil {
		cursor = *def.LastRun
	}

	count := 0
	for {
		next, err := Advance(cursor, def.Frequency)
		if err != nil {
			return count, err
		}
		if next.After(now) {
			break
		}
		if err := e.materialize(def, next); err != nil {
			return count, err
		}
		cursor = next
		count++
	}

	if count > 0 {
		if err := e.store.SaveLastRun(def, cursor); err != nil {
			return count, fmt.Errorf("save cursor: %w", err)
		}
	}
	return count, nil
}

// materialize creates the expense for one due occurrence, evaluates the
// matching budget and dispatches the notice.
func (e *Engine) materialize(def *models.RecurringExpense, due time.Time) error {
	expense := &models.Expense{
		UserID:      def.UserID,
		Amount:      def.Amount,
		Category:    def.Name,
		Description: fmt.Sprintf("Recurring (%s) - %s", def.Frequency, def.Name),
		Date:        due,
	}
	if err := e.store.CreateExpense(expense); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	alert := finance.Alert{Severity: finance.AlertNone}
	budget, err := e.store.FindBudget(def.UserID, expense.Category)
	if err != nil {
		return fmt.Errorf("find budget: %w", err)
	}
	if budget != nil {
		spent, err := e.store.SpentForCategory(def.UserID, budget.Name)
		if err != nil {
			return fmt.Errorf("sum category spend: %w", err)
		}
		alert = finance.EvaluateAlert(budget.Name, spent, budget.Limit)
	}

	user, err := e.store.GetUser(def.UserID)
	if err != nil {
		return fmt.Errorf("load owner: %w", err)
	}

	amount := def.Amount.StringFixed(2)
	inApp := fmt.Sprintf("Recurring expense %q of %s added.", def.Name, amount)
	text := fmt.Sprintf("A recurring expense %q of amount %s was added to your account.", def.Name, amount)
	html := fmt.Sprintf("<p>A recurring expense <b>%s</b> of amount <b>%s</b> was added to your account.</p>", def.Name, amount)
	if alert.Severity != finance.AlertNone {
		inApp += " " + alert.Message
		text += "\n\n" + alert.Message
		html += fmt.Sprintf("<p style=%q>%s</p>", "color:red", alert.Message)
	}

	return e.dispatch.Dispatch(user, inApp, mailer.Message{
		Subject: "Recurring Expense Applied",
		Text:    text,
		HTML:    html,
	})
}
