package main

import (
	"context"
	"log"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/nexcard/backend/internal/config"
	"github.com/nexcard/backend/internal/handlers"
	appMiddleware "github.com/nexcard/backend/internal/middleware"
	"github.com/nexcard/backend/internal/routes"
	"github.com/nexcard/backend/internal/services"
)

func main() {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	var (
		cardService services.CardService
		subService  services.SubscriptionService
		scanService services.ScannedService
	)

	switch cfg.StorageMode {
	case "memory":
		log.Println("Storage: in-memory (data is lost on restart)")
		cardService = services.NewMemoryCardService()
		subService = services.NewMemorySubscriptionService()
		scanService = services.NewMemoryScannedService()
	default:
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase app: %v", err)
		}
		fsClient, err := app.Firestore(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firestore client: %v", err)
		}
		log.Printf("Storage: Firestore (project=%s)", cfg.FirebaseProjectID)
		cardService = services.NewFirestoreCardService(fsClient)
		subService = services.NewFirestoreSubscriptionService(fsClient)
		scanService = services.NewFirestoreScannedService(fsClient)
	}

	var profileService services.ProfileService
	if cfg.MongoURI != "" {
		mongoProfiles, err := services.NewMongoProfileService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoProfiles.Close(ctx)
		profileService = mongoProfiles
	} else {
		log.Println("Profiles: in-memory (MONGO_URI not set)")
		profileService = services.NewMemoryProfileService()
	}

	var cardCache *services.CardCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis unreachable, public-card cache disabled: %v", err)
		} else {
			log.Printf("Public-card cache enabled (redis=%s)", cfg.RedisAddr)
			cardCache = services.NewCardCache(rdb, cfg.CardCacheTTL)
		}
	}

	var (
		authMiddleware func(http.Handler) http.Handler
		authHandler    *handlers.AuthHandler
	)
	switch cfg.AuthMode {
	case "jwt":
		log.Println("Auth: local JWT (dev mode)")
		authMiddleware = appMiddleware.JWTAuth(cfg.JWTSecret)
		authHandler = handlers.NewAuthHandler(services.NewUserService(), cfg.JWTSecret, cfg.JWTExpiration)
	default:
		authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth client: %v", err)
		}
		authMiddleware = appMiddleware.FirebaseAuth(authClient)
	}

	r := routes.New(routes.Deps{
		Auth:           authMiddleware,
		AllowedOrigins: cfg.AllowedOrigins,
		Cards:          handlers.NewCardHandler(cardService, subService, cardCache),
		Scanned:        handlers.NewScannedHandler(scanService, cardService, subService),
		Subscriptions:  handlers.NewSubscriptionHandler(subService),
		Profiles:       handlers.NewProfileHandler(profileService),
		VCards:         handlers.NewVCardHandler(cardService),
		AuthHandler:    authHandler,
	})

	log.Printf("NexCard API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
