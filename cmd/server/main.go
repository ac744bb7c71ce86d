package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"platefull-backend-go/internal/api"
	"platefull-backend-go/internal/config"
	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/db"
	"platefull-backend-go/internal/identity"
	"platefull-backend-go/internal/middleware"
	"platefull-backend-go/internal/objectstore"
)

// backend bundles the storage and identity adapters selected by BACKEND.
type backend struct {
	documents db.DocumentStore
	objects   objectstore.Store
	identity  identity.Provider
	close     func() error
}

func main() {
	// In production, environment variables are set directly.
	if os.Getenv("GIN_MODE") != gin.ReleaseMode {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: no .env file loaded:", err)
		}
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded", zap.String("backend", appConfig.Backend))

	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	be, err := openBackend(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize backend", zap.Error(err))
	}
	defer func() {
		if err := be.close(); err != nil {
			zapLogger.Warn("Backend close failed", zap.Error(err))
		}
	}()

	// --- Repositories ---
	userRepo := db.NewUserRepository(be.documents)
	donationRepo := db.NewDonationRepository(be.documents)
	ngoRepo := db.NewNGORepository(be.documents)
	requestRepo := db.NewDonationRequestRepository(be.documents)

	// --- Services ---
	mediaService := core.NewMediaService(be.objects, core.MediaOptions{
		Compress: appConfig.ImageCompression,
		MaxWidth: appConfig.ImageMaxWidth,
		Quality:  appConfig.ImageQuality,
	})
	authService := core.NewAuthService(be.identity, userRepo)
	userService := core.NewUserService(userRepo, mediaService)
	donationService := core.NewDonationService(donationRepo, userRepo, mediaService)
	ngoService := core.NewNGOService(ngoRepo, userRepo, mediaService)
	requestService := core.NewDonationRequestService(requestRepo, donationRepo, ngoRepo)

	var googleFed *identity.GoogleFederation
	if appConfig.GoogleSignInEnabled() {
		googleFed, err = newGoogleFederation(appConfig)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to configure Google sign-in", zap.Error(err))
		}
	}

	// --- HTTP engine ---
	if strings.ToLower(appConfig.GinMode) == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.Metrics())
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured")
	}

	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		middleware.NewAuthMiddleware(authService),
		googleFed,
		authService,
		userService,
		donationService,
		ngoService,
		requestService,
	)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server exiting.")
}

func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if strings.ToLower(appConfig.GinMode) == gin.ReleaseMode {
		zapConfig = zap.NewProductionConfig()
	}
	if appConfig.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(appConfig.LogLevel)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = level
	}
	return zapConfig.Build()
}

func openBackend(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*backend, error) {
	if appConfig.Backend == config.BackendMemory {
		logger.Warn("Using in-memory backend; all data is lost on exit")
		return &backend{
			documents: db.NewMemoryStore(),
			objects:   objectstore.NewMemoryStore(),
			identity:  identity.NewMemoryProvider(),
			close:     func() error { return nil },
		}, nil
	}

	if err := db.InitFirebase(ctx, appConfig, logger); err != nil {
		return nil, err
	}
	// The identity service is long-lived, so it must not inherit the init timeout.
	provider, err := identity.NewFirebaseProvider(context.Background(), appConfig.FirebaseAPIKey,
		db.GetFirebaseAuthClient(), appConfig.GoogleOAuthRedirectURL)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &backend{
		documents: db.NewFirestoreStore(db.GetFirestoreClient()),
		objects:   objectstore.NewBucketStore(db.GetStorageBucket()),
		identity:  provider,
		close:     db.Close,
	}, nil
}

// newGoogleFederation decodes the state cookie keys. Missing keys are
// generated, which invalidates in-flight sign-ins on restart.
func newGoogleFederation(appConfig *config.Config) (*identity.GoogleFederation, error) {
	hashKey, err := cookieKey(appConfig.OAuthStateHashKey, 64)
	if err != nil {
		return nil, fmt.Errorf("OAUTH_STATE_HASH_KEY: %w", err)
	}
	blockKey, err := cookieKey(appConfig.OAuthStateBlockKey, 32)
	if err != nil {
		return nil, fmt.Errorf("OAUTH_STATE_BLOCK_KEY: %w", err)
	}
	return identity.NewGoogleFederation(
		appConfig.GoogleOAuthClientID,
		appConfig.GoogleOAuthClientSecret,
		appConfig.GoogleOAuthRedirectURL,
		hashKey, blockKey,
	), nil
}

func cookieKey(encoded string, size int) ([]byte, error) {
	if encoded == "" {
		key := securecookie.GenerateRandomKey(size)
		if key == nil {
			return nil, errors.New("could not generate random key")
		}
		return key, nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}
