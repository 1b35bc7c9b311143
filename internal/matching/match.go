// Package matching ranks students for sponsors and funding opportunities for
// students with a deterministic financial-need heuristic.
package matching

import (
	"sort" // Stable sorting

	"edubridge/internal/domain"  // Importing domain models
	"edubridge/internal/storage" // Candidate join types
)

// defaultScore is reported when a candidate has no financial need on record
const defaultScore = 0.5

// StudentMatch is the student-facing ranked projection: the joined user is
// flattened to id and displayName and the password never appears.
type StudentMatch struct {
	ID          int                   `json:"id"`          // Owning user's id
	DisplayName string                `json:"displayName"` // Owning user's display name
	Profile     domain.StudentProfile `json:"profile"`     // The candidate's profile
	MatchScore  float64               `json:"matchScore"`  // Display-only normalized score
}

// SponsorMatch is the sponsor-facing ranked projection, which additionally
// carries the candidate's first pending application, if any.
type SponsorMatch struct {
	ID                    int                        `json:"id"`                    // Owning user's id
	DisplayName           string                     `json:"displayName"`           // Owning user's display name
	Profile               domain.StudentProfile      `json:"profile"`               // The candidate's profile
	Application           *domain.FundingApplication `json:"application"`           // Pending application, nil if none
	MatchScore            float64                    `json:"matchScore"`            // Display-only normalized score
	HasPendingApplication bool                       `json:"hasPendingApplication"` // Whether a pending application exists
}

// score normalizes financial need into a display value. It is never used for
// ordering; the comparators below sort on the raw financial need.
func score(financialNeed *int) float64 {
	if financialNeed == nil {
		return defaultScore // Flat default when need is unknown
	}
	return float64(*financialNeed) / 1000 // Normalized need
}

// needLess orders two candidates by financial need, descending, with
// candidates lacking a value after any candidate that has one. Equal or both-
// missing needs report no order so a stable sort preserves encountered order.
func needLess(a, b *int) bool {
	if a == nil {
		return false // Missing need never sorts first
	}
	if b == nil {
		return true // Present need sorts before missing
	}
	return *a > *b // Higher need first
}

// RankStudents ranks the candidate set for the student-facing view:
// financial need descending, missing need last, ties in encountered order.
func RankStudents(candidates []storage.StudentWithUser) []StudentMatch {
	ranked := make([]storage.StudentWithUser, len(candidates))
	copy(ranked, candidates) // Leave the caller's slice alone
	// Stable sort so equal candidates keep their input order
	sort.SliceStable(ranked, func(i, j int) bool {
		return needLess(ranked[i].FinancialNeed, ranked[j].FinancialNeed)
	})
	// Project to the output shape
	results := make([]StudentMatch, len(ranked))
	for i, c := range ranked {
		results[i] = StudentMatch{
			ID:          c.User.ID,              // Flattened user id
			DisplayName: c.User.DisplayName,     // Flattened display name
			Profile:     c.StudentProfile,       // Profile fields
			MatchScore:  score(c.FinancialNeed), // Display-only score
		}
	}
	return results
}

// RankForSponsor ranks the candidate set for the sponsor-facing view:
// candidates with a pending application first, then financial need
// descending, missing need last, ties in encountered order.
func RankForSponsor(candidates []storage.StudentWithApplication) []SponsorMatch {
	ranked := make([]storage.StudentWithApplication, len(candidates))
	copy(ranked, candidates) // Leave the caller's slice alone
	// Stable sort so equal candidates keep their input order
	sort.SliceStable(ranked, func(i, j int) bool {
		// Pending-application presence is the primary key
		if (ranked[i].Application != nil) != (ranked[j].Application != nil) {
			return ranked[i].Application != nil
		}
		// Financial need is the secondary key
		return needLess(ranked[i].FinancialNeed, ranked[j].FinancialNeed)
	})
	// Project to the output shape
	results := make([]SponsorMatch, len(ranked))
	for i, c := range ranked {
		results[i] = SponsorMatch{
			ID:                    c.User.ID,              // Flattened user id
			DisplayName:           c.User.DisplayName,     // Flattened display name
			Profile:               c.StudentProfile,       // Profile fields
			Application:           c.Application,          // Pending application, if any
			MatchScore:            score(c.FinancialNeed), // Display-only score
			HasPendingApplication: c.Application != nil,   // Presence flag
		}
	}
	return results
}
