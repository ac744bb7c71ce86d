package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"platefull-backend-go/internal/config"
	"platefull-backend-go/internal/core"
	"platefull-backend-go/internal/identity"
	"platefull-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (request id, logging, recovery, metrics, CORS) is applied
// to router in main.go before this is called. googleFed may be nil, in which
// case the Google sign-in endpoints answer 404.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	googleFed *identity.GoogleFederation,
	authService core.AuthService,
	userService core.UserService,
	donationService core.DonationService,
	ngoService core.NGOService,
	requestService core.DonationRequestService,
) {
	if authMW == nil {
		logger.Fatal("AuthMiddleware is nil; routes cannot be secured")
	}

	authHandler := NewAuthHandler(authService, googleFed, appConfig.GinMode == gin.ReleaseMode)
	userHandler := NewUserHandler(userService)
	donationHandler := NewDonationHandler(donationService)
	ngoHandler := NewNGOHandler(ngoService)
	requestHandler := NewRequestHandler(requestService)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.GET("/google/start", authHandler.GoogleStart)
			authGroup.GET("/google/callback", authHandler.GoogleCallback)
			authGroup.GET("/me", authHandler.Me)
			authGroup.POST("/signout", authMW.VerifyToken(), authHandler.SignOut)
		}

		users := apiV1.Group("/users", authMW.VerifyToken())
		{
			users.GET("/me", userHandler.GetCurrentUserProfile)
			users.PUT("/me", userHandler.UpdateCurrentUserProfile)
			users.POST("/me/photo", userHandler.UploadPhoto)
			users.GET("/:uid", userHandler.GetUser)
		}

		donations := apiV1.Group("/donations", authMW.VerifyToken())
		{
			donations.POST("", donationHandler.CreateDonation)
			donations.GET("", donationHandler.ListDonations)
			donations.GET("/stream", donationHandler.StreamDonations)
			donations.GET("/:id", donationHandler.GetDonation)
			donations.PATCH("/:id", donationHandler.UpdateDonation)
			donations.DELETE("/:id", donationHandler.DeleteDonation)
			donations.POST("/:id/image", donationHandler.UploadImage)
		}

		ngos := apiV1.Group("/ngos", authMW.VerifyToken())
		{
			ngos.POST("", ngoHandler.RegisterNGO)
			ngos.GET("", ngoHandler.ListNGOs)
			ngos.GET("/:id", ngoHandler.GetNGO)
			ngos.PATCH("/:id", ngoHandler.UpdateNGO)
			ngos.PUT("/:id/verification", ngoHandler.SetVerification)
			ngos.POST("/:id/logo", ngoHandler.UploadLogo)
		}

		requests := apiV1.Group("/requests", authMW.VerifyToken())
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("", requestHandler.ListRequests)
			requests.GET("/:id", requestHandler.GetRequest)
			requests.PATCH("/:id", requestHandler.UpdateRequest)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "PlateFull backend is healthy.", "backend": appConfig.Backend})
	})
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	logger.Info("API routes configured", zap.Bool("googleSignIn", googleFed != nil))
}
