package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/finance"
	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
	"github.com/jayasuriya321/finance/internal/util"
)

// ReportHandler exports expense data as CSV or XLSX downloads and mails a
// CSV report on request.
type ReportHandler struct {
	DB   *gorm.DB
	Mail *mailer.Mailer
}

func NewReportHandler(db *gorm.DB, mail *mailer.Mailer) *ReportHandler {
	return &ReportHandler{DB: db, Mail: mail}
}

var expenseHeader = []string{"Date", "Category", "Description", "Amount"}

func expenseRows(expenses []models.Expense) [][]string {
	rows := make([][]string, 0, len(expenses))
	for i := range expenses {
		e := &expenses[i]
		rows = append(rows, []string{
			e.Date.Format("2006-01-02"),
			e.Category,
			e.Description,
			e.Amount.StringFixed(2),
		})
	}
	return rows
}

func expensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(expenseHeader); err != nil {
		return nil, err
	}
	for _, row := range expenseRows(expenses) {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func expensesXLSX(expenses []models.Expense) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range expenseHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	for rowIdx, row := range expenseRows(expenses) {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *ReportHandler) loadExpenses(c *gin.Context, userID uint) ([]models.Expense, bool) {
	q := h.DB.Where("user_id = ?", userID)
	if from := c.Query("from"); from != "" {
		t, err := util.ParseDate(from)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid from date")
			return nil, false
		}
		q = q.Where("date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := util.ParseDate(to)
		if err != nil {
			util.Fail(c, http.StatusBadRequest, "Invalid to date")
			return nil, false
		}
		q = q.Where("date <= ?", t)
	}

	var expenses []models.Expense
	if err := q.Order("date, id").Find(&expenses).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return nil, false
	}
	return expenses, true
}

// Download streams the user's expenses as a file. ?format=xlsx switches from
// the default CSV to a spreadsheet.
func (h *ReportHandler) Download(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	expenses, ok := h.loadExpenses(c, user.ID)
	if !ok {
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, err := expensesXLSX(expenses)
		if err != nil {
			util.Fail(c, http.StatusInternalServerError, "Server error building report")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expenses-%s.xlsx"`, stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	case "csv":
		data, err := expensesCSV(expenses)
		if err != nil {
			util.Fail(c, http.StatusInternalServerError, "Server error building report")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="expenses-%s.csv"`, stamp))
		c.Data(http.StatusOK, "text/csv", data)
	default:
		util.Fail(c, http.StatusBadRequest, "Unsupported format")
	}
}

// Budgets returns a usage report for every budget.
func (h *ReportHandler) Budgets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).Order("name").Find(&budgets).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading budgets")
		return
	}
	var expenses []models.Expense
	if err := h.DB.Where("user_id = ?", user.ID).Find(&expenses).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading expenses")
		return
	}

	type budgetReport struct {
		Name string `json:"name"`
		finance.BudgetStatus
		Limit string `json:"limit"`
	}
	report := make([]budgetReport, 0, len(budgets))
	for i := range budgets {
		b := budgets[i]
		spent := finance.SpentForCategory(expenses, b.Name)
		report = append(report, budgetReport{
			Name:         b.Name,
			BudgetStatus: finance.StatusForBudget(b.Limit, spent),
			Limit:        b.Limit.StringFixed(2),
		})
	}

	util.OK(c, gin.H{
		"generated_at": time.Now().UTC(),
		"budgets":      report,
	})
}

// Goals returns a progress report for every goal.
func (h *ReportHandler) Goals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var goals []models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).Order("id").Find(&goals).Error; err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error loading goals")
		return
	}

	now := time.Now().UTC()
	type goalReport struct {
		Title  string          `json:"title"`
		Target decimal.Decimal `json:"target"`
		Saved  decimal.Decimal `json:"saved"`
		finance.GoalProgress
	}
	report := make([]goalReport, 0, len(goals))
	for i := range goals {
		g := goals[i]
		report = append(report, goalReport{
			Title:        g.Title,
			Target:       g.TargetAmount,
			Saved:        g.CurrentAmount,
			GoalProgress: finance.ProgressForGoal(g.CurrentAmount, g.TargetAmount, g.Deadline, now),
		})
	}

	util.OK(c, gin.H{
		"generated_at": now,
		"goals":        report,
	})
}

// Email sends the expense report to the user's address as a CSV attachment.
func (h *ReportHandler) Email(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !h.Mail.Enabled() {
		util.Fail(c, http.StatusInternalServerError, "Email delivery is not configured")
		return
	}

	expenses, ok := h.loadExpenses(c, user.ID)
	if !ok {
		return
	}

	data, err := expensesCSV(expenses)
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error building report")
		return
	}

	total := finance.Sum(expenses)
	stamp := time.Now().Format("2006-01-02")
	err = h.Mail.Send(mailer.Message{
		To:      user.Email,
		Subject: "Your Expense Report",
		Text:    fmt.Sprintf("Attached is your expense report (%d entries, %s total).", len(expenses), total.StringFixed(2)),
		HTML: fmt.Sprintf("<p>Attached is your expense report (<b>%d</b> entries, <b>%s</b> total).</p>",
			len(expenses), total.StringFixed(2)),
		Attachments: []mailer.Attachment{{
			Filename: fmt.Sprintf("expenses-%s.csv", stamp),
			Content:  data,
		}},
	})
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Server error sending report email")
		return
	}

	util.Message(c, "Report emailed successfully")
}
