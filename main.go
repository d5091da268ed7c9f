package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pradhanmausumi/zudio-franchise/gateway"
	"github.com/pradhanmausumi/zudio-franchise/handlers/admin"
	"github.com/pradhanmausumi/zudio-franchise/handlers/enquiries"
	"github.com/pradhanmausumi/zudio-franchise/handlers/payments"
	"github.com/pradhanmausumi/zudio-franchise/metrics"
	"github.com/pradhanmausumi/zudio-franchise/store"
	"github.com/pradhanmausumi/zudio-franchise/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	port := getEnv("PORT", "3000")
	baseURL := getEnv("BASE_URL", "http://localhost:"+port)
	environment := getEnv("ENVIRONMENT", "development")

	apiKey := os.Getenv("INSTAMOJO_API_KEY")
	authToken := os.Getenv("INSTAMOJO_AUTH_TOKEN")
	salt := os.Getenv("INSTAMOJO_SALT")
	configured := apiKey != "" && authToken != ""

	// The gateway implementation is chosen exactly once. Missing credentials
	// force test mode no matter what the flag says.
	testMode := getEnv("INSTAMOJO_TEST_MODE", "true") == "true" || !configured

	apiURL := gateway.LiveAPIURL
	var gw gateway.Client
	if testMode {
		apiURL = baseURL + "/test-payment"
		gw = gateway.NewSandbox(baseURL)
		log.Println("Instamojo test mode: payments are simulated locally")
	} else {
		if getEnv("INSTAMOJO_SANDBOX", "false") == "true" {
			apiURL = gateway.TestAPIURL
		}
		gw = gateway.NewInstamojo(apiURL, apiKey, authToken, baseURL)
		log.Printf("Instamojo live mode against %s", apiURL)
	}
	if salt == "" {
		log.Println("Warning: INSTAMOJO_SALT not set, webhook MAC verification is disabled")
	}

	orders := store.NewOrderStore()
	enquiryStore := store.NewEnquiryStore()
	notifier := utils.NewNotifier(utils.NewSMTPMailer(), os.Getenv("ADMIN_EMAIL"))

	paymentHandler := payments.NewHandler(orders, gw, notifier, salt, testMode)
	enquiryHandler := enquiries.NewHandler(enquiryStore, notifier)
	adminHandler := admin.NewHandler(orders, enquiryStore)

	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(metrics.Instrument())

	origins := strings.Split(getEnv("CORS_ORIGINS", "*"), ",")
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.POST("/create-payment", paymentHandler.CreatePayment)
	api.POST("/webhook", paymentHandler.Webhook)
	api.GET("/payment-status/:orderId", paymentHandler.PaymentStatus)
	api.POST("/send-notification", enquiryHandler.SendNotification)
	api.GET("/admin/payments", adminHandler.ListPayments)
	api.GET("/admin/enquiries", adminHandler.ListEnquiries)

	r.GET("/test-payment", paymentHandler.TestCheckout)
	r.GET("/payment-success", paymentHandler.PaymentSuccess)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": environment,
			"instamojo": gin.H{
				"configured": configured,
				"testMode":   testMode,
				"apiUrl":     apiURL,
			},
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 40 * time.Second, // gateway calls may take up to 30s
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
