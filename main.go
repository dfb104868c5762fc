// main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"go-foodorder/config"
	"go-foodorder/controllers"
	"go-foodorder/middleware"
	"go-foodorder/routes"
	"go-foodorder/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	db := client.Database(cfg.DatabaseName)
	if err := utils.EnsureIndexes(context.TODO(), db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Redis backs the rate-limit counters
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	tokens := utils.NewTokenService(cfg.JWTSecret)
	emailService := utils.NewEmailService(cfg.SendgridAPIKey, cfg.EmailSender)
	limiter := middleware.NewRateLimiter(redisClient, tokens, cfg.RateLimitWindow, cfg.RateLimitMax)

	// Initialize controllers
	authController := controllers.NewAuthController(db, tokens, emailService, cfg.GoogleClientID)
	menuController := controllers.NewMenuController(db)
	cartController := controllers.NewCartController(db)
	orderController := controllers.NewOrderController(db, emailService)
	userController := controllers.NewUserController(db)

	// Set up the router
	router := mux.NewRouter()
	router.Use(limiter.Limit)
	routes.RegisterRoutes(router, middleware.Auth(tokens),
		authController, menuController, cartController, orderController, userController)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
