package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
)

// fakeStore is an in-memory Store so the engine can be driven without a
// database.
type fakeStore struct {
	defs     []models.RecurringExpense
	users    map[uint]*models.User
	budgets  map[string]*models.Budget // keyed by budget name
	expenses []models.Expense

	failExpenseAfter int // fail CreateExpense once this many rows exist, 0 = never
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[uint]*models.User{},
		budgets: map[string]*models.Budget{},
	}
}

func (s *fakeStore) ListActiveRecurring() ([]models.RecurringExpense, error) {
	var active []models.RecurringExpense
	for _, def := range s.defs {
		if def.Active {
			active = append(active, def)
		}
	}
	return active, nil
}

func (s *fakeStore) GetUser(id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("no user %d", id)
	}
	return user, nil
}

func (s *fakeStore) CreateExpense(e *models.Expense) error {
	if s.failExpenseAfter > 0 && len(s.expenses) >= s.failExpenseAfter {
		return errors.New("disk full")
	}
	s.expenses = append(s.expenses, *e)
	return nil
}

func (s *fakeStore) FindBudget(userID uint, name string) (*models.Budget, error) {
	budget, ok := s.budgets[name]
	if !ok || budget.UserID != userID {
		return nil, nil
	}
	return budget, nil
}

func (s *fakeStore) SpentForCategory(userID uint, category string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.expenses {
		if e.UserID == userID && e.Category == category {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (s *fakeStore) SaveLastRun(def *models.RecurringExpense, lastRun time.Time) error {
	if lastRun.Before(def.StartDate) {
		lastRun = def.StartDate
	}
	for i := range s.defs {
		if s.defs[i].ID == def.ID {
			t := lastRun
			s.defs[i].LastRun = &t
			def.LastRun = &t
			return nil
		}
	}
	return fmt.Errorf("no definition %d", def.ID)
}

// fakeDispatcher records every dispatched notice.
type fakeDispatcher struct {
	users    []uint
	inApp    []string
	messages []mailer.Message
}

func (d *fakeDispatcher) Dispatch(user *models.User, inApp string, msg mailer.Message) error {
	d.users = append(d.users, user.ID)
	d.inApp = append(d.inApp, inApp)
	d.messages = append(d.messages, msg)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupEngine() (*fakeStore, *fakeDispatcher, *Engine) {
	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Email: "a@b.c", EmailNotifications: true}
	dispatch := &fakeDispatcher{}
	return store, dispatch, NewEngine(store, dispatch)
}

func TestRun_DailyCatchUp(t *testing.T) {
	store, dispatch, engine := setupEngine()
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Coffee",
		Amount:    dec("5"),
		Frequency: models.FreqDaily,
		StartDate: date(2024, 6, 1),
		Active:    true,
	}}

	engine.Run(date(2024, 6, 6))

	require.Len(t, store.expenses, 5)
	for i, e := range store.expenses {
		assert.Equal(t, date(2024, 6, 2+i), e.Date)
		assert.Equal(t, "Coffee", e.Category)
		assert.True(t, e.Amount.Equal(dec("5")))
		assert.Equal(t, "Recurring (daily) - Coffee", e.Description)
	}
	require.NotNil(t, store.defs[0].LastRun)
	assert.Equal(t, date(2024, 6, 6), *store.defs[0].LastRun)
	assert.Len(t, dispatch.inApp, 5)
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	store, _, engine := setupEngine()
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Coffee",
		Amount:    dec("5"),
		Frequency: models.FreqDaily,
		StartDate: date(2024, 6, 1),
		Active:    true,
	}}

	engine.Run(date(2024, 6, 6))
	engine.Run(date(2024, 6, 6))

	assert.Len(t, store.expenses, 5)
}

func TestRun_MonthlyEndOfMonthNormalizes(t *testing.T) {
	store, _, engine := setupEngine()
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Hosting",
		Amount:    dec("12"),
		Frequency: models.FreqMonthly,
		StartDate: date(2024, 1, 31),
		Active:    true,
	}}

	engine.Run(date(2024, 3, 15))

	require.Len(t, store.expenses, 1)
	assert.Equal(t, date(2024, 3, 2), store.expenses[0].Date)
}

func TestRun_FutureStartDoesNothing(t *testing.T) {
	store, dispatch, engine := setupEngine()
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Gym",
		Amount:    dec("30"),
		Frequency: models.FreqMonthly,
		StartDate: date(2025, 1, 1),
		Active:    true,
	}}

	engine.Run(date(2024, 6, 1))

	assert.Empty(t, store.expenses)
	assert.Nil(t, store.defs[0].LastRun)
	assert.Empty(t, dispatch.inApp)
}

func TestRun_InactiveSkipped(t *testing.T) {
	store, _, engine := setupEngine()
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Old Sub",
		Amount:    dec("9"),
		Frequency: models.FreqMonthly,
		StartDate: date(2024, 1, 1),
		Active:    false,
	}}

	engine.Run(date(2024, 6, 1))

	assert.Empty(t, store.expenses)
}

func TestRun_NothingDueLeavesCursorAlone(t *testing.T) {
	store, _, engine := setupEngine()
	last := date(2024, 6, 1)
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Rent",
		Amount:    dec("1000"),
		Frequency: models.FreqMonthly,
		StartDate: date(2024, 1, 1),
		LastRun:   &last,
		Active:    true,
	}}

	engine.Run(date(2024, 6, 15))

	assert.Empty(t, store.expenses)
	assert.Equal(t, last, *store.defs[0].LastRun)
}

func TestRun_RentEndToEnd(t *testing.T) {
	store, dispatch, engine := setupEngine()
	store.budgets["Rent"] = &models.Budget{ID: 1, UserID: 1, Name: "Rent", Limit: dec("2500")}
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Rent",
		Amount:    dec("1000"),
		Frequency: models.FreqMonthly,
		StartDate: date(2024, 1, 1),
		Active:    true,
	}}

	engine.Run(date(2024, 4, 1))

	require.Len(t, store.expenses, 3)
	assert.Equal(t, date(2024, 2, 1), store.expenses[0].Date)
	assert.Equal(t, date(2024, 3, 1), store.expenses[1].Date)
	assert.Equal(t, date(2024, 4, 1), store.expenses[2].Date)
	require.NotNil(t, store.defs[0].LastRun)
	assert.Equal(t, date(2024, 4, 1), *store.defs[0].LastRun)

	// first occurrence is quiet, second crosses 80%, third exceeds the limit
	require.Len(t, dispatch.inApp, 3)
	assert.Equal(t, `Recurring expense "Rent" of 1000.00 added.`, dispatch.inApp[0])
	assert.Contains(t, dispatch.inApp[1], "You've used 80.0% of your Rent budget.")
	assert.Contains(t, dispatch.inApp[2], "You exceeded your Rent budget by 500.00.")
	assert.Equal(t, "Recurring Expense Applied", dispatch.messages[2].Subject)
}

func TestRun_MidLoopFailureKeepsCursorBehind(t *testing.T) {
	store, _, engine := setupEngine()
	store.failExpenseAfter = 2
	store.defs = []models.RecurringExpense{{
		ID:        1,
		UserID:    1,
		Name:      "Coffee",
		Amount:    dec("5"),
		Frequency: models.FreqDaily,
		StartDate: date(2024, 6, 1),
		Active:    true,
	}}

	engine.Run(date(2024, 6, 6))

	// two rows landed, then the write failed; the cursor must not advance,
	// so the next run replays from the start
	assert.Len(t, store.expenses, 2)
	assert.Nil(t, store.defs[0].LastRun)
}

func TestRun_FailingDefinitionDoesNotBlockOthers(t *testing.T) {
	store, _, engine := setupEngine()
	store.users[2] = &models.User{ID: 2}
	store.defs = []models.RecurringExpense{
		{
			ID:        1,
			UserID:    99, // unknown owner, GetUser fails
			Name:      "Broken",
			Amount:    dec("1"),
			Frequency: models.FreqDaily,
			StartDate: date(2024, 6, 1),
			Active:    true,
		},
		{
			ID:        2,
			UserID:    2,
			Name:      "Healthy",
			Amount:    dec("2"),
			Frequency: models.FreqDaily,
			StartDate: date(2024, 6, 4),
			Active:    true,
		},
	}

	engine.Run(date(2024, 6, 6))

	healthy := 0
	for _, e := range store.expenses {
		if e.Category == "Healthy" {
			healthy++
		}
	}
	assert.Equal(t, 2, healthy)
	require.NotNil(t, store.defs[1].LastRun)
	assert.Equal(t, date(2024, 6, 6), *store.defs[1].LastRun)
	assert.Nil(t, store.defs[0].LastRun)
}
