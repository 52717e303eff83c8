package scheduler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
)

// Store is the persistence surface the catch-up engine needs. All methods are
// scoped to a single owner; the engine holds no state of its own between runs.
type Store interface {
	// ListActiveRecurring returns every definition with the active flag set.
	ListActiveRecurring() ([]models.RecurringExpense, error)
	// GetUser loads the owner of a definition.
	GetUser(id uint) (*models.User, error)
	// CreateExpense persists one materialized occurrence.
	CreateExpense(e *models.Expense) error
	// FindBudget returns the owner's budget whose name equals the category,
	// or (nil, nil) when there is none.
	FindBudget(userID uint, name string) (*models.Budget, error)
	// SpentForCategory recomputes the owner's total spend in a category.
	SpentForCategory(userID uint, category string) (decimal.Decimal, error)
	// SaveLastRun persists the advanced cursor on the definition.
	SaveLastRun(def *models.RecurringExpense, lastRun time.Time) error
}

// Dispatcher delivers a materialization notice in-app and by email.
type Dispatcher interface {
	Dispatch(user *models.User, inApp string, msg mailer.Message) error
}
