package routes

import (
	adminapi "journal-app/internal/api/admin"
	authapi "journal-app/internal/api/auth"
	billingapi "journal-app/internal/api/billing"
	ipnapi "journal-app/internal/api/ipn"
	journalapi "journal-app/internal/api/journal"
	plansapi "journal-app/internal/api/plans"
	"journal-app/internal/app/http/middleware"
	"journal-app/internal/billing"

	"journal-app/database"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Constructed once per process; handlers share these instances.
	reportCache := adminapi.NewReportCache(database.DB)
	ipnHandler := ipnapi.NewHandler(billing.NewReconciler(database.DB))

	r.POST("/ipn", ipnHandler.HandleIPN)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plansapi.ListPlans)
	public.GET("/verify", authapi.VerifyEmail)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/plan", plansapi.GetEffectivePlan)
	auth.POST("/upgrade", plansapi.Upgrade)
	auth.POST("/create-invoice", billingapi.CreateInvoice)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.POST("/journals", journalapi.CreateJournal)
	auth.GET("/journals", journalapi.ListJournals)
	auth.POST("/trades", journalapi.CreateTrade)
	auth.GET("/trades", journalapi.ListTrades)

	// Paid users
	paid := auth.Group("/")
	paid.Use(middleware.RequirePaidPlan())
	paid.GET("/analytics", journalapi.GetAnalytics)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/report", adminapi.ReportHandler(reportCache))
	admin.GET("/users", adminapi.ListAllUsers)
}
