package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jayasuriya321/finance/internal/config"
	"github.com/jayasuriya321/finance/internal/handler"
	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/middleware"
)

// SetupRouter configures the Gin engine and mounts every API route.
func SetupRouter(cfg *config.Config, db *gorm.DB, mail *mailer.Mailer) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	// auth endpoints (no token required)
	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer,
		cfg.JWT.ExpireHours, mail, cfg.App.ClientURL)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password/:token", authHandler.ResetPassword)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/users/me", handler.GetMe)
	protected.PUT("/users/me", handler.UpdateMe(db))
	protected.GET("/users/preferences", handler.GetPreferences)
	protected.PUT("/users/preferences", handler.UpdatePreferences(db))

	expenseHandler := handler.NewExpenseHandler(db)
	protected.GET("/expenses", expenseHandler.List)
	protected.POST("/expenses", expenseHandler.Create)
	protected.PUT("/expenses/:id", expenseHandler.Update)
	protected.DELETE("/expenses/:id", expenseHandler.Delete)
	protected.GET("/expenses/report", expenseHandler.Report)

	incomeHandler := handler.NewIncomeHandler(db)
	protected.GET("/income", incomeHandler.List)
	protected.POST("/income", incomeHandler.Create)
	protected.PUT("/income/:id", incomeHandler.Update)
	protected.DELETE("/income/:id", incomeHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.GET("/budgets", budgetHandler.List)
	protected.POST("/budgets", budgetHandler.Create)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)
	protected.GET("/budgets/summary", budgetHandler.Summary)
	protected.GET("/budgets/alerts", budgetHandler.Alerts)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", categoryHandler.List)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	goalHandler := handler.NewGoalHandler(db)
	protected.GET("/goals", goalHandler.List)
	protected.POST("/goals", goalHandler.Create)
	protected.PUT("/goals/:id", goalHandler.Update)
	protected.DELETE("/goals/:id", goalHandler.Delete)
	protected.GET("/goals/progress", goalHandler.Progress)

	recurringHandler := handler.NewRecurringHandler(db)
	protected.GET("/recurrings", recurringHandler.List)
	protected.POST("/recurrings", recurringHandler.Create)
	protected.PUT("/recurrings/:id", recurringHandler.Update)
	protected.DELETE("/recurrings/:id", recurringHandler.Delete)

	notificationHandler := handler.NewNotificationHandler(db)
	protected.GET("/notifications", notificationHandler.List)
	protected.POST("/notifications", notificationHandler.Create)
	protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.DELETE("/notifications", notificationHandler.Clear)

	reportHandler := handler.NewReportHandler(db, mail)
	protected.GET("/reports/expenses", reportHandler.Download)
	protected.POST("/reports/expenses/email", reportHandler.Email)
	protected.GET("/reports/budgets", reportHandler.Budgets)
	protected.GET("/reports/goals", reportHandler.Goals)

	dashboardHandler := handler.NewDashboardHandler(db)
	protected.GET("/dashboard/summary", dashboardHandler.Summary)

	return r
}
