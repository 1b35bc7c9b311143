package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"edubridge/internal/matching" // Ranking comparator
	"edubridge/internal/storage"  // Record store interface
	"edubridge/internal/utils"    // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Cache keys and TTL for the ranked matching payloads. The sponsor-facing
// candidate list is identical for every sponsor (only the per-request profile
// guard differs), so a single key covers all sponsors and every mutation that
// can change the candidate set invalidates both keys.
const (
	matchStudentsCacheKey     = "match:students"           // Student-facing ranking
	sponsorCandidatesCacheKey = "match:sponsor-candidates" // Sponsor-facing ranking
	matchCacheTTL             = 60 * time.Second           // Cache lifetime
)

// invalidateMatchCache drops both cached rankings; a nil client is a no-op
func invalidateMatchCache(rdb *redis.Client) {
	if rdb == nil {
		return // Caching disabled
	}
	ctx := context.Background()                                // Context for Redis operations
	_ = utils.DeleteCache(ctx, rdb, matchStudentsCacheKey)     // Drop student-facing ranking
	_ = utils.DeleteCache(ctx, rdb, sponsorCandidatesCacheKey) // Drop sponsor-facing ranking
}

// MatchStudentsHandler returns all students ranked by financial need
func MatchStudentsHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		// Serve from cache when available
		if rdb != nil {
			var cached []matching.StudentMatch
			if found, err := utils.GetCache(ctx, rdb, matchStudentsCacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, cached) // Return cached ranking
				return
			}
		}
		// Gather the candidate set
		candidates, err := s.GetAllStudentsForMatching()
		if err != nil {
			// If gathering fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		results := matching.RankStudents(candidates) // Rank the candidates
		// Cache the ranking
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, matchStudentsCacheKey, results, matchCacheTTL)
		}
		c.JSON(http.StatusOK, results)
	}
}

// SponsorRecommendationsHandler returns students ranked for a sponsor.
// A sponsor without a profile gets an empty list, not an error, so callers
// that always expect a list keep working.
func SponsorRecommendationsHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("sponsorId")) // Parse the path parameter (the sponsor's user id)
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}
		// Verify the user exists
		if _, err := s.GetUser(userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Soft-fail when the sponsor has not created a profile yet
		if _, err := s.GetSponsorProfile(userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				logrus.WithField("user_id", userID).Info("Sponsor profile not found, returning empty recommendations")
				c.JSON(http.StatusOK, []matching.SponsorMatch{}) // Empty ranked list
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		ctx := context.Background() // Context for Redis operations
		// Serve from cache when available
		if rdb != nil {
			var cached []matching.SponsorMatch
			if found, err := utils.GetCache(ctx, rdb, sponsorCandidatesCacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, cached) // Return cached ranking
				return
			}
		}
		// Gather the candidate set with pending applications joined in
		candidates, err := s.GetStudentsForSponsorMatching()
		if err != nil {
			// If gathering fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		results := matching.RankForSponsor(candidates) // Rank the candidates
		// Cache the ranking
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, sponsorCandidatesCacheKey, results, matchCacheTTL)
		}
		c.JSON(http.StatusOK, results)
	}
}
