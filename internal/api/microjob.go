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

// CreateMicroJobRequest represents a micro-job posting request
type CreateMicroJobRequest struct {
	Title          string   `json:"title" binding:"required"`             // Title must be provided
	Description    string   `json:"description" binding:"required"`       // Description must be provided
	PostedBy       int      `json:"postedBy" binding:"required"`          // Posting user must be provided
	SkillsRequired []string `json:"skillsRequired"`                       // Required skills, optional
	Compensation   int      `json:"compensation" binding:"required,gt=0"` // Pay must be positive
}

// UpdateMicroJobStatusRequest represents a micro-job status change
type UpdateMicroJobStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open assigned completed"` // One of the three allowed states
}

// CreateMicroJobHandler posts a new micro-job to the board
func CreateMicroJobHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMicroJobRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Create the job; the store forces status=open
		job, err := s.CreateMicroJob(domain.MicroJob{
			Title:          req.Title,          // Job title
			Description:    req.Description,    // Job description
			PostedBy:       req.PostedBy,       // Posting user
			SkillsRequired: req.SkillsRequired, // Required skills
			Compensation:   req.Compensation,   // Pay
		})
		if err != nil {
			// If creation fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		// Log the posting
		logrus.WithFields(logrus.Fields{
			"job_id":    job.ID,       // New job ID
			"posted_by": job.PostedBy, // Posting user
		}).Info("Micro-job posted")
		c.JSON(http.StatusCreated, job)
	}
}

// ListMicroJobsHandler returns every micro-job; the caller filters by status
func ListMicroJobsHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fetch all jobs
		jobs, err := s.GetAllMicroJobs()
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, jobs)
	}
}

// UpdateMicroJobStatusHandler moves a micro-job into any of the three states
func UpdateMicroJobStatusHandler(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the path parameter
		if err != nil {
			// If the id is not an integer, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid job ID"})
			return
		}
		var req UpdateMicroJobStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Missing or out-of-range status, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}
		// Update the status
		job, err := s.UpdateMicroJobStatus(id, req.Status)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Micro-job not found"})
				return
			}
			// Any other store failure is a server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		// Log the status change
		logrus.WithFields(logrus.Fields{
			"job_id": job.ID,     // Job ID
			"status": job.Status, // New status
		}).Info("Micro-job status updated")
		c.JSON(http.StatusOK, job)
	}
}
