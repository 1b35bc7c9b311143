package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"edubridge/internal/domain"  // Importing domain models
	"edubridge/internal/storage" // Record store interface

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// CreateFundingApplicationRequest represents a funding application request.
// Status and createdAt are assigned by the store; any values supplied by the
// caller are ignored because they are not bound here.
type CreateFundingApplicationRequest struct {
	StudentID int            `json:"studentId" binding:"required"`   // Applying student profile must be provided
	Amount    int            `json:"amount" binding:"required,gt=0"` // Requested amount must be positive
	Purpose   string         `json:"purpose" binding:"required"`     // Purpose must be provided
	Documents map[string]any `json:"documents"`                      // Supporting documents, optional
}

// UpdateApplicationStatusRequest represents an application status change
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"` // One of the three allowed states
}

// CreateFundingApplicationHandler files a new funding application
func CreateFundingApplicationHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFundingApplicationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Create the application; the store forces status=pending and stamps createdAt
		application, err := s.CreateFundingApplication(domain.FundingApplication{
			StudentID: req.StudentID, // Applying student
			Amount:    req.Amount,    // Requested amount
			Purpose:   req.Purpose,   // Purpose
			Documents: req.Documents, // Documents
		})
		if err != nil {
			// If creation fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Log the application
		logrus.WithFields(logrus.Fields{
			"application_id": application.ID,        // New application ID
			"student_id":     application.StudentID, // Applying student
			"amount":         application.Amount,    // Requested amount
		}).Info("Funding application filed")
		invalidateMatchCache(rdb) // Pending applications feed the rankings
		c.JSON(http.StatusCreated, application)
	}
}

// ListStudentApplicationsHandler returns a student's applications in insertion order
func ListStudentApplicationsHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID, err := strconv.Atoi(c.Param("studentId")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid student ID"})
			return
		}
		// Fetch the student's applications
		applications, err := s.GetStudentApplications(studentID)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, applications)
	}
}

// ListPendingApplicationsHandler returns every application still awaiting a decision
func ListPendingApplicationsHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fetch pending applications
		applications, err := s.GetAllPendingApplications()
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, applications)
	}
}

// UpdateApplicationStatusHandler moves an application into any of the three
// states. There is no transition guard: an approved application can be moved
// back to pending through this endpoint.
func UpdateApplicationStatusHandler(s storage.Storage, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid application ID"})
			return
		}
		var req UpdateApplicationStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Missing or out-of-range status, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}
		// Update the status
		application, err := s.UpdateFundingApplicationStatus(id, req.Status)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Funding application not found"})
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		// Log the status change
		logrus.WithFields(logrus.Fields{
			"application_id": application.ID,     // Application ID
			"status":         application.Status, // New status
		}).Info("Funding application status updated")
		invalidateMatchCache(rdb) // Pending applications feed the rankings
		c.JSON(http.StatusOK, application)
	}
}
