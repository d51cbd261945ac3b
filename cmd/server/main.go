package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shuttleclub/internal/handlers"
	clubMiddleware "shuttleclub/internal/middleware"
	"shuttleclub/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase. An unset path falls back to application
	// default credentials.
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")

	authClient, err := services.InitFirebase(context.Background(), credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("Auth features will not work until valid credentials are provided")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migration
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis (optional; services degrade to direct DB reads)
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	}

	// Initialize services
	rosterService := services.NewRosterService(db, cache)
	scheduleService := services.NewScheduleService(db, rosterService)
	midtransService := services.NewMidtransService()
	paymentService := services.NewPaymentService(db, midtransService, rosterService)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = clubMiddleware.CustomErrorHandler

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authClient, db)
	sessionHandler := handlers.NewSessionHandler(db, rosterService, scheduleService)
	expenseHandler := handlers.NewExpenseHandler(db, rosterService)
	paymentHandler := handlers.NewPaymentHandler(db, rosterService, paymentService)
	requestHandler := handlers.NewPaymentRequestHandler(db, rosterService)
	memberHandler := handlers.NewMemberHandler(db, rosterService)

	// Public routes
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)
	e.POST("/payments/notification", paymentHandler.Notification)

	// Protected routes
	protected := e.Group("")
	protected.Use(clubMiddleware.RequireAuth(authClient, db))

	protected.GET("/sessions", sessionHandler.ListSessions)
	protected.GET("/sessions/:id", sessionHandler.GetSession)
	protected.POST("/sessions/:id/register", sessionHandler.Register)
	protected.POST("/sessions/:id/withdraw", sessionHandler.Withdraw)

	protected.POST("/sessions/:id/expenses", expenseHandler.CreateExpense)
	protected.DELETE("/sessions/:id/expenses/:expense_id", expenseHandler.DeleteExpense)

	protected.POST("/sessions/:id/payments", paymentHandler.InitiatePayment)
	protected.GET("/sessions/:id/payments/status", paymentHandler.PaymentStatus)
	protected.POST("/sessions/:id/paid", paymentHandler.TogglePaid)

	protected.POST("/sessions/:id/payment-requests", requestHandler.CreateRequest)

	protected.GET("/members", memberHandler.ListMembers)
	protected.GET("/settings", memberHandler.GetSettings)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(clubMiddleware.RequireAdmin())

	admin.POST("/sessions/generate", sessionHandler.GenerateMonth)
	admin.POST("/sessions/:id/cancel", sessionHandler.CancelSession)
	admin.POST("/sessions/:id/auto-enroll", sessionHandler.AutoEnroll)

	admin.GET("/payment-requests", requestHandler.ListRequests)
	admin.POST("/payment-requests/:request_id/approve", requestHandler.ApproveRequest)
	admin.POST("/payment-requests/:request_id/reject", requestHandler.RejectRequest)

	admin.POST("/members/:member_id/core", memberHandler.SetCore)
	admin.POST("/members/:member_id/ban", memberHandler.SetBanned)
	admin.PUT("/settings", memberHandler.UpdateSettings)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
