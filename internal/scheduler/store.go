package scheduler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/models"
)

// GormStore is the database-backed Store used in production. It also
// satisfies notify.Store so one instance serves the engine and the
// dispatcher.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ListActiveRecurring() ([]models.RecurringExpense, error) {
	var defs []models.RecurringExpense
	if err := s.DB.Where("active = ?", true).Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("list active recurring: %w", err)
	}
	return defs, nil
}

func (s *GormStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

func (s *GormStore) CreateExpense(e *models.Expense) error {
	return s.DB.Create(e).Error
}

func (s *GormStore) FindBudget(userID uint, name string) (*models.Budget, error) {
	var budget models.Budget
	err := s.DB.Where("user_id = ? AND name = ?", userID, name).First(&budget).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (s *GormStore) SpentForCategory(userID uint, category string) (decimal.Decimal, error) {
	var expenses []models.Expense
	if err := s.DB.Where("user_id = ? AND category = ?", userID, category).
		Find(&expenses).Error; err != nil {
		return decimal.Zero, err
	}
	return finance.Sum(expenses), nil
}

func (s *GormStore) SaveLastRun(def *models.RecurringExpense, lastRun time.Time) error {
	// the cursor never sits before the start date
	if lastRun.Before(def.StartDate) {
		lastRun = def.StartDate
	}
	def.LastRun = &lastRun
	return s.DB.Model(def).Update("last_run", def.LastRun).Error
}

func (s *GormStore) CreateNotification(n *models.Notification) error {
	return s.DB.Create(n).Error
}
