package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"bookwise/backend/internal/ai"
	"bookwise/backend/internal/exchange"
	"bookwise/backend/internal/handler"
	"bookwise/backend/internal/middleware"
	"bookwise/backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

func main() {
	godotenv.Load(".env.local")

	env := os.Getenv("ENV")
	log.Printf("[INFO] Starting BookWise backend env=%s", env)

	ctx := context.Background()

	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "bookwise"
	}
	st, err := store.Connect(ctx, mongoURL, dbName)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to document store: %v", err)
	}
	defer st.Close(ctx)
	log.Printf("[INFO] Connected to document store db=%s", dbName)

	// The oracle is optional: without an API key the AI endpoints run on the
	// deterministic fallback and /health reports degraded.
	var llm ai.LLMClient
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			log.Printf("[WARN] Failed to initialize oracle client: %v", err)
			log.Println("[WARN] AI endpoints will use the deterministic fallback")
		} else {
			llm = ai.NewGeminiLLMClient(client, os.Getenv("GEMINI_MODEL"))
			log.Println("[INFO] Oracle client initialized")
		}
	} else {
		log.Println("[WARN] GEMINI_API_KEY not set; AI endpoints will use the deterministic fallback")
	}

	orchestrator := ai.NewOrchestrator(llm, st.Preferences, st.Stats, st.Books, st.Recommendations, st.Interactions)
	exchanges := exchange.NewService(st.Books, st.Exchanges, st.Notifications, st.Interactions)
	h := handler.New(st, exchanges, orchestrator)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := []string{}
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}
	if cloudRunURL := os.Getenv("CLOUD_RUN_URL"); cloudRunURL != "" {
		allowedOrigins = append(allowedOrigins, cloudRunURL)
	}
	if extraOrigins := os.Getenv("ALLOWED_ORIGINS"); extraOrigins != "" {
		allowedOrigins = append(allowedOrigins, strings.Split(extraOrigins, ",")...)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept-Language"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Oracle-backed endpoints share one daily quota plus per-IP limiting.
	ipLimiter := middleware.NewIPRateLimiter(rate.Every(1*time.Second), 3)
	dailyQuota := middleware.NewDailyQuota(500)
	oracleLimit := middleware.RateLimitMiddleware(ipLimiter, dailyQuota)
	log.Printf("[INFO] Rate limiting enabled")

	// Health check endpoints (outside /api group, no rate limiting)
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.POST("/books", h.HandleCreateBook)
		api.GET("/books", h.HandleListBooks)
		api.GET("/books/trending", h.HandleTrendingBooks)
		api.GET("/books/:id", h.HandleGetBook)
		api.PUT("/books/:id", h.HandleUpdateBook)
		api.POST("/books/:id/interaction", h.HandleBookInteraction)

		api.POST("/exchanges/request", h.HandleCreateExchange)
		api.PUT("/exchanges/:id/respond", h.HandleRespondExchange)
		api.POST("/exchanges/:id/complete", h.HandleCompleteExchange)
		api.GET("/exchanges/user/:user_id", h.HandleListExchanges)

		api.POST("/ai/generate-recommendations/:user_id", oracleLimit, h.HandleGenerateRecommendations)
		api.GET("/ai/book-matches/:user_id", h.HandleBookMatches)
		api.POST("/ai/chat/:user_id", oracleLimit, h.HandleChat)

		api.GET("/users/:user_id/ai-recommendations", h.HandleListRecommendations)
		api.GET("/users/:user_id/ai-insights", oracleLimit, h.HandleReadingInsights)
		api.GET("/users/:user_id/preferences", h.HandleGetPreferences)
		api.POST("/users/:user_id/preferences", h.HandleUpdatePreferences)
		api.GET("/users/:user_id/stats", h.HandleGetStats)
		api.POST("/users/:user_id/stats/update", h.HandleUpdateStats)
		api.GET("/users/:user_id/reading-habits", h.HandleReadingHabits)

		api.GET("/notifications/users/:user_id", h.HandleListNotifications)
		api.GET("/notifications/users/:user_id/preferences", h.HandleGetNotificationPreferences)
		api.PUT("/notifications/users/:user_id/preferences", h.HandleUpdateNotificationPreferences)
		api.PUT("/notifications/:id/read", h.HandleMarkNotificationRead)
		api.DELETE("/notifications/:id", h.HandleDeleteNotification)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v", port, allowedOrigins)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
