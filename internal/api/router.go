package api

import (
	"edubridge/internal/config"     // Application configuration
	"edubridge/internal/middleware" // JWT middleware
	"edubridge/internal/storage"    // Record store interface

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// RegisterRoutes wires every endpoint onto the router. The store, redis
// client (nil disables caching) and config are injected so the test suite
// can build the same engine the server runs.
func RegisterRoutes(r *gin.Engine, s storage.Storage, rdb *redis.Client, cfg *config.Config) {
	root := r.Group("/api") // All endpoints live under /api

	// Debug routes
	root.GET("/debug/users", DebugUsersHandler(s)) // All users without passwords

	// Authentication routes
	auth := root.Group("/auth")
	auth.POST("/register", RegisterHandler(s))                                 // Registration endpoint
	auth.POST("/login", LoginHandler(s, cfg.JWTSecret))                        // Login endpoint
	auth.GET("/me", middleware.JWTAuthMiddleware(cfg.JWTSecret), MeHandler(s)) // Authenticated self lookup

	// Student profile routes
	root.POST("/students/profile", CreateStudentProfileHandler(s, rdb))        // Create profile
	root.GET("/students/profile/:userId", GetStudentProfileHandler(s))         // Fetch profile
	root.PUT("/students/profile/:userId", UpdateStudentProfileHandler(s, rdb)) // Partial update

	// Sponsor profile routes
	root.POST("/sponsors/profile", CreateSponsorProfileHandler(s))        // Create profile
	root.GET("/sponsors/profile/:userId", GetSponsorProfileHandler(s))    // Fetch profile
	root.PUT("/sponsors/profile/:userId", UpdateSponsorProfileHandler(s)) // Partial update

	// Funding application routes
	root.POST("/funding-applications", CreateFundingApplicationHandler(s, rdb))             // File application
	root.GET("/funding-applications/student/:studentId", ListStudentApplicationsHandler(s)) // Student's applications
	root.GET("/funding-applications/pending", ListPendingApplicationsHandler(s))            // Pending applications
	root.PUT("/funding-applications/:id/status", UpdateApplicationStatusHandler(s, rdb))    // Status change

	// Sponsorship routes
	root.POST("/sponsorships", CreateSponsorshipHandler(s, rdb))                    // Create sponsorship
	root.GET("/sponsorships/sponsor/:sponsorId", ListSponsorSponsorshipsHandler(s)) // Sponsor's sponsorships
	root.GET("/sponsorships/student/:studentId", ListStudentSponsorshipsHandler(s)) // Student's sponsorships

	// Micro-job routes
	root.POST("/micro-jobs", CreateMicroJobHandler(s))                 // Post job
	root.GET("/micro-jobs", ListMicroJobsHandler(s))                   // List jobs
	root.PUT("/micro-jobs/:id/status", UpdateMicroJobStatusHandler(s)) // Status change

	// Matching routes
	root.GET("/ai/match-students", MatchStudentsHandler(s, rdb))                              // Student-facing ranking
	root.GET("/ai/sponsor-recommendations/:sponsorId", SponsorRecommendationsHandler(s, rdb)) // Sponsor-facing ranking

	// Payment routes
	root.POST("/create-payment-intent", CreatePaymentIntentHandler(s, cfg.StripeSecretKey)) // Stripe payment intent
}
