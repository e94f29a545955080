// main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"go-storefront/controllers"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/utils"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, proceeding with environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}
	utils.JwtKey = []byte(secret)

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	frontendURL := envDefault("FRONTEND_URL", "http://localhost:5173")
	publicURL := envDefault("PUBLIC_URL", "http://localhost:"+port)
	uploadDir := envDefault("UPLOAD_DIR", "Upload/Images")
	mongoURL := envDefault("MONGO_URL", "mongodb://localhost:27017")
	mongoDB := envDefault("MONGO_DB", "storefront")

	// Connect to MongoDB
	st, err := store.ConnectMongo(context.Background(), mongoURL, mongoDB)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() {
		if err := st.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect failed", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB", zap.String("database", mongoDB))

	emailService := utils.NewEmailService()

	uploadController, err := controllers.NewUploadController(uploadDir, publicURL, logger)
	if err != nil {
		logger.Fatal("upload dir setup failed", zap.Error(err))
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, routes.Controllers{
		Users:    controllers.NewUserController(st, emailService, logger),
		Products: controllers.NewProductController(st, logger),
		Cart:     controllers.NewCartController(st, logger),
		Checkout: controllers.NewCheckoutController(frontendURL, logger),
		Upload:   uploadController,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{frontendURL, "http://localhost:5174"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logger.Info("server listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, cors(router)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
