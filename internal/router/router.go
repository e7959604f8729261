// Package router wires the CityCare HTTP surface onto a gin engine.
package router

import (
	"context"
	"net/http"
	"time"

	"citycare-backend/internal/config"
	"citycare-backend/internal/handlers"
	"citycare-backend/internal/metrics"
	"citycare-backend/internal/middleware"
	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps carries everything the routes need. OTPLimiter and Ready may be nil.
type Deps struct {
	Config   *config.Config
	Log      *logrus.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Resolver      *services.IdentityResolver
	Authenticator *services.Authenticator
	OTP           *services.OTPIssuer
	Accounts      *services.AccountService
	Issues        *services.IssueService
	Votes         *services.VoteService

	OTPLimiter *middleware.OTPSendLimiter
	// Ready reports whether the backing store is reachable.
	Ready func(ctx context.Context) error
}

var startTime = time.Now()

func Setup(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.Log))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if d.Config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(d.Config.RateLimitRequests, d.Config.RateLimitWindow())
		router.Use(limiter.RateLimit())
	}

	router.Use(middleware.SecurityHeaders())

	setupHealthRoutes(router, d)

	authHandler := handlers.NewAuthHandler(d.Authenticator, d.OTP)
	citizenHandler := handlers.NewCitizenHandler(d.Accounts)
	headHandler := handlers.NewHeadHandler(d.Accounts)
	officerHandler := handlers.NewOfficerHandler(d.Accounts)
	technicianHandler := handlers.NewTechnicianHandler(d.Accounts)
	issueHandler := handlers.NewCityIssueHandler(d.Issues)
	voteHandler := handlers.NewVoteHandler(d.Votes)

	authenticated := middleware.AuthMiddleware(d.Resolver)
	citizen := middleware.RequireRole(models.RoleCitizen)
	technician := middleware.RequireRole(models.RoleTechnician)
	officer := middleware.RequireRole(models.RoleOfficer)
	head := middleware.RequireRole(models.RoleHead)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/signup", authHandler.Signup)
		if d.OTPLimiter != nil {
			authGroup.POST("/send-otp", d.OTPLimiter.Limit(), authHandler.SendOTP)
		} else {
			authGroup.POST("/send-otp", authHandler.SendOTP)
		}

		authGroup.GET("/officer/profile", authenticated, officer, authHandler.Profile)
		authGroup.GET("/technician/profile", authenticated, technician, authHandler.Profile)
		authGroup.GET("/head/profile", authenticated, head, authHandler.Profile)

		techs := authGroup.Group("/technicians", authenticated, technician)
		techs.GET("", technicianHandler.GetMe)
		techs.PUT("/me", technicianHandler.UpdateMe)
		techs.PUT("/me/password", technicianHandler.ChangePassword)
	}

	api := router.Group("/api")

	citizenGroup := api.Group("/citizen", authenticated, citizen)
	{
		citizenGroup.GET("/profile", citizenHandler.GetProfile)
		citizenGroup.PUT("/profile", citizenHandler.UpdateProfile)
		citizenGroup.PUT("/profile/password", citizenHandler.ChangePassword)
	}

	headGroup := api.Group("/head", authenticated, head)
	{
		headGroup.POST("/create-officer", headHandler.CreateOfficer)
		headGroup.DELETE("/officers/:officerId", headHandler.DeleteOfficer)
		headGroup.GET("/officers", headHandler.ListOfficers)
		headGroup.GET("/me", headHandler.GetMe)
		headGroup.PUT("/me", headHandler.UpdateMe)
		headGroup.PUT("/me/password", headHandler.ChangePassword)
	}

	officerGroup := api.Group("/officer", authenticated, officer)
	{
		officerGroup.POST("/create-technician", officerHandler.CreateTechnician)
		officerGroup.GET("/technicians", officerHandler.ListTechnicians)
		officerGroup.DELETE("/technicians/:id", officerHandler.DeleteTechnician)
		officerGroup.GET("/me", officerHandler.GetMe)
		officerGroup.PUT("/me", officerHandler.UpdateMe)
		officerGroup.PUT("/me/password", officerHandler.ChangePassword)
	}

	issues := api.Group("/issues")
	{
		issues.GET("/all-public", issueHandler.GetAllIssues)

		issues.POST("/create", authenticated, citizen, issueHandler.CreateIssue)
		issues.GET("/my-issues", authenticated, citizen, issueHandler.GetMyIssues)
		issues.DELETE("/:id", authenticated, citizen, issueHandler.DeleteIssue)

		issues.GET("/all", authenticated, officer, issueHandler.GetAllIssues)
		issues.POST("/:id/assign-technicians", authenticated, officer, issueHandler.AssignTechnicians)

		issues.PATCH("/:id/update-status", authenticated, technician, issueHandler.UpdateStatus)
		issues.GET("/my-assigned", authenticated, technician, issueHandler.GetMyAssigned)
	}

	// :id is the issue id everywhere except DELETE, where it is the vote id.
	votes := api.Group("/votes")
	{
		votes.GET("/:id/count", voteHandler.GetCount)
		votes.GET("/:id/comments", voteHandler.GetComments)

		votes.POST("/:id", authenticated, citizen, voteHandler.CastVote)
		votes.DELETE("/:id", authenticated, citizen, voteHandler.DeleteVote)
		votes.GET("/:id/my-vote", authenticated, citizen, voteHandler.GetMyVote)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":  "Method not allowed",
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
	})

	return router
}

func setupHealthRoutes(router *gin.Engine, d Deps) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(startTime).String(),
			"store":     d.Config.StoreDriver,
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				d.Log.WithError(err).Warn("readiness check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	})

	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
}
