package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LucasLorenaa/projeto-javer-services/internal/gateway/handler"
	"github.com/LucasLorenaa/projeto-javer-services/internal/gateway/market"
	"github.com/LucasLorenaa/projeto-javer-services/internal/gateway/storageclient"
	"github.com/LucasLorenaa/projeto-javer-services/shared/middleware"
	redisClient "github.com/LucasLorenaa/projeto-javer-services/shared/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	storageURL := getEnv("STORAGE_SERVICE_URL", "http://localhost:8001")
	storage := storageclient.New(storageURL)

	// Redis backs the 60-second market-quote cache. The gateway still starts
	// without it; quotes are just fetched on every request.
	var quoteCache *redisClient.ViewCache[market.Quote]
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redis, err := redisClient.NewClient(redisAddr, "", 0)
	if err != nil {
		log.Printf("Redis unavailable, market quotes will not be cached: %v", err)
	} else {
		defer redis.Close()
		quoteCache = redisClient.NewViewCache[market.Quote](redis.Client, 60*time.Second)
	}

	quotes := market.NewService(quoteCache)

	clientProxy := handler.NewClientProxy(storage.BaseURL())
	investmentProxy := handler.NewInvestmentProxy(storage.BaseURL(), quotes)
	analytics := handler.NewAnalyticsHandler(storage, quotes)
	proxy := handler.ProxyTo(storage.BaseURL())

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "gateway"})
	})

	// Client routes (validated at the edge, then proxied)
	router.POST("/register", clientProxy.ForwardCreate)
	router.POST("/clients", clientProxy.ForwardCreate)
	router.POST("/login", proxy)
	router.GET("/clients", proxy)
	router.GET("/clients/:id", proxy)
	router.PUT("/clients/:id", clientProxy.ForwardUpdate)
	router.DELETE("/clients/:id", proxy)
	router.PUT("/password", proxy)

	// Investment routes (ticker checked against the market service)
	router.POST("/investments", investmentProxy.Forward)
	router.GET("/investments", proxy)
	router.GET("/investments/:id", proxy)
	router.PUT("/investments/:id", investmentProxy.Forward)
	router.DELETE("/investments/:id", proxy)
	router.GET("/investments/cliente/:id", proxy)
	router.GET("/investments/cliente/:id/total", proxy)

	// Derived views
	router.GET("/clients/:id/score", analytics.Score)

	calculos := router.Group("/calculos", middleware.AuthMiddleware())
	{
		calculos.GET("/patrimonio/:id", analytics.Patrimonio)
		calculos.GET("/projecao/:id", analytics.Projecao)
	}

	analises := router.Group("/analises", middleware.AuthMiddleware())
	{
		analises.GET("/carteira/:id", analytics.Carteira)
		analises.GET("/mercado/:ticker", analytics.Mercado)
	}

	port := getEnv("PORT", "8000")
	log.Printf("Gateway starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		// Remove trailing slash if present
		return strings.TrimSuffix(value, "/")
	}
	return fallback
}
