// Package ranking implements the profile scoring rules: profile
// completion, the student ranking used to order directory listings, and
// the viewer-to-student skill match score.
package ranking

import (
	"math"
	"sort"
	"strings"
	"time"

	"unilink/backend/internal/config"
	"unilink/backend/internal/models"
)

// ProfileCompletion computes the completion percentage for a user from
// the filled profile fields and the number of showcased projects.
func ProfileCompletion(u *models.User, projectCount int) int {
	completion := 0

	if trimmedNonEmpty(u.Name) {
		completion += config.CompletionName
	}
	if trimmedNonEmpty(u.Email) {
		completion += config.CompletionEmail
	}
	if trimmedNonEmpty(u.Image) {
		completion += config.CompletionImage
	}
	if trimmedNonEmpty(u.Category) {
		completion += config.CompletionCategory
	}
	if u.Semester != nil && *u.Semester > 0 {
		completion += config.CompletionSemester
	}
	if trimmedNonEmpty(u.Bio) {
		completion += config.CompletionBio
	}
	if projectCount > 0 {
		completion += config.CompletionProject
	}

	if completion > 100 {
		completion = 100
	}
	return completion
}

// SkillMatchScore scores how well a student's profile matches the viewer:
// same category is worth half the score, semester proximity the other half.
func SkillMatchScore(viewer, student *models.User) int {
	if viewer == nil || student == nil {
		return 0
	}

	score := 0.0

	if viewer.Category != "" && student.Category != "" && viewer.Category == student.Category {
		score += config.SkillCategoryScore
	}

	if viewer.Semester != nil && student.Semester != nil {
		diff := math.Abs(float64(*viewer.Semester - *student.Semester))
		proximity := config.SkillSemesterScore * (1 - diff/config.SkillSemesterSpread)
		if proximity > 0 {
			score += proximity
		}
	}

	return int(math.Round(score))
}

// Score computes the weighted ranking score for a student: profile
// completion, recency of the last profile update, and how contacted the
// student is (messages sent).
func Score(u *models.User, messageCount int64, now time.Time) float64 {
	completion := float64(u.ProfileCompletionPercent)

	days := int(now.Sub(u.UpdatedAt).Hours() / 24)
	recency := float64(100 - days*config.RecencyDecayPerDay)
	if recency < 0 {
		recency = 0
	}

	contact := float64(messageCount * config.ContactPointsPerMessage)
	if contact > 100 {
		contact = 100
	}

	return completion*config.RankCompletionWeight +
		recency*config.RankRecencyWeight +
		contact*config.RankContactWeight
}

// SortStudents orders students by descending ranking score, breaking ties
// by most recent profile update.
func SortStudents(students []models.User, messageCounts map[string]int64, now time.Time) {
	sort.SliceStable(students, func(i, j int) bool {
		a, b := &students[i], &students[j]
		scoreA := Score(a, messageCounts[a.ID], now)
		scoreB := Score(b, messageCounts[b.ID], now)
		if scoreA != scoreB {
			return scoreA > scoreB
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})
}

func trimmedNonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
