package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"edubridge/internal/domain"  // Importing domain models
	"edubridge/internal/storage" // Record store interface

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreateSponsorProfileRequest represents a sponsor profile creation request
type CreateSponsorProfileRequest struct {
	UserID       int      `json:"userId" binding:"required"`                               // Owning user must be provided
	Type         *string  `json:"type" binding:"omitempty,oneof=individual corporate ngo"` // Sponsor type, optional
	Organization *string  `json:"organization"`                                            // Organization name, optional
	Website      *string  `json:"website"`                                                 // Website, optional
	FocusAreas   []string `json:"focusAreas"`                                              // Funding focus areas, optional
	Bio          *string  `json:"bio"`                                                     // Biography, optional
}

// CreateSponsorProfileHandler creates a profile for a sponsor user and marks
// the account's profile as completed (a second store write, not transactional)
func CreateSponsorProfileHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSponsorProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Check that the user exists
		user, err := s.GetUser(req.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Only sponsors can create sponsor profiles
		if user.Role != domain.RoleSponsor {
			c.JSON(http.StatusForbidden, gin.H{"message": "Only sponsors can create sponsor profiles"})
			return
		}
		// Create the profile
		profile, err := s.CreateSponsorProfile(domain.SponsorProfile{
			UserID:       req.UserID,       // Owning user
			Type:         req.Type,         // Sponsor type
			Organization: req.Organization, // Organization
			Website:      req.Website,      // Website
			FocusAreas:   req.FocusAreas,   // Focus areas
			Bio:          req.Bio,          // Bio
		})
		if err != nil {
			// If creation fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Flip the user's completion flag as a second write
		completed := true
		if _, err := s.UpdateUser(user.ID, storage.UserPatch{ProfileCompleted: &completed}); err != nil {
			// The profile is already stored; log and carry on
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Owning user
				"error":   err.Error(), // Error message
			}).Warn("Failed to mark profile completed")
		}
		// Log the profile creation
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Owning user
			"profile_id": profile.ID, // New profile ID
		}).Info("Sponsor profile created")
		c.JSON(http.StatusCreated, profile)
	}
}

// GetSponsorProfileHandler returns the profile owned by the given user
func GetSponsorProfileHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}
		// Fetch the profile
		profile, err := s.GetSponsorProfile(userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Sponsor profile not found"})
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateSponsorProfileHandler shallow-merges a partial payload over the profile
func UpdateSponsorProfileHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("userId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
			return
		}
		var patch storage.SponsorProfilePatch // Bind partial payload; absent fields stay nil
		if err := c.ShouldBindJSON(&patch); err != nil {
			// If the body is malformed, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Merge the patch over the stored profile
		profile, err := s.UpdateSponsorProfile(userID, patch)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Sponsor profile not found"})
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
