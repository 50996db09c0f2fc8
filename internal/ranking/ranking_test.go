package ranking_test

import (
	"testing"
	"time"

	"unilink/backend/internal/models"
	"unilink/backend/internal/ranking"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestProfileCompletion_Empty(t *testing.T) {
	u := &models.User{}
	assert.Equal(t, 0, ranking.ProfileCompletion(u, 0))
}

func TestProfileCompletion_FullProfile(t *testing.T) {
	u := &models.User{
		Name:     "Ada",
		Email:    "ada@example.edu",
		Image:    "ada.png",
		Category: "Computer Science",
		Semester: intPtr(5),
		Bio:      "Compilers and gardens.",
	}
	assert.Equal(t, 100, ranking.ProfileCompletion(u, 2))
}

func TestProfileCompletion_PartialWeights(t *testing.T) {
	// name 10 + email 10 + bio 20 = 40
	u := &models.User{Name: "Ada", Email: "ada@example.edu", Bio: "hello"}
	assert.Equal(t, 40, ranking.ProfileCompletion(u, 0))

	// Whitespace-only fields do not count.
	u.Bio = "   "
	assert.Equal(t, 20, ranking.ProfileCompletion(u, 0))
}

func TestProfileCompletion_ProjectContribution(t *testing.T) {
	u := &models.User{}
	assert.Equal(t, 15, ranking.ProfileCompletion(u, 1))
	assert.Equal(t, 15, ranking.ProfileCompletion(u, 7), "more projects do not add more weight")
}

func TestSkillMatchScore(t *testing.T) {
	viewer := &models.User{Category: "Computer Science", Semester: intPtr(4)}

	sameEverything := &models.User{Category: "Computer Science", Semester: intPtr(4)}
	assert.Equal(t, 100, ranking.SkillMatchScore(viewer, sameEverything))

	differentCategory := &models.User{Category: "Design", Semester: intPtr(4)}
	assert.Equal(t, 50, ranking.SkillMatchScore(viewer, differentCategory))

	// Semester proximity: |4-8| = 4 of 8 -> 25 of the 50 points.
	farSemester := &models.User{Category: "Computer Science", Semester: intPtr(8)}
	assert.Equal(t, 75, ranking.SkillMatchScore(viewer, farSemester))

	assert.Equal(t, 0, ranking.SkillMatchScore(nil, sameEverything))
	assert.Equal(t, 0, ranking.SkillMatchScore(viewer, nil))

	// Missing fields contribute nothing.
	blank := &models.User{}
	assert.Equal(t, 0, ranking.SkillMatchScore(viewer, blank))
}

func TestScore_WeightedFormula(t *testing.T) {
	now := time.Now()

	u := &models.User{ProfileCompletionPercent: 80, UpdatedAt: now}
	// completion 80*0.5 + recency 100*0.3 + contact 10*5*0.2 with cap 100
	got := ranking.Score(u, 10, now)
	assert.InDelta(t, 80*0.5+100*0.3+50*0.2, got, 0.001)

	// Contact score caps at 100.
	got = ranking.Score(u, 1000, now)
	assert.InDelta(t, 80*0.5+100*0.3+100*0.2, got, 0.001)

	// Recency floors at zero after 50 days without updates.
	stale := &models.User{ProfileCompletionPercent: 80, UpdatedAt: now.Add(-60 * 24 * time.Hour)}
	got = ranking.Score(stale, 0, now)
	assert.InDelta(t, 80*0.5, got, 0.001)
}

// TestSortStudents_CompletionAndRecency covers the documented ranking
// scenario: 80% completion updated today beats 40% updated 30 days ago.
func TestSortStudents_CompletionAndRecency(t *testing.T) {
	now := time.Now()
	students := []models.User{
		{ID: "stale", ProfileCompletionPercent: 40, UpdatedAt: now.Add(-30 * 24 * time.Hour)},
		{ID: "fresh", ProfileCompletionPercent: 80, UpdatedAt: now},
	}

	ranking.SortStudents(students, nil, now)

	assert.Equal(t, "fresh", students[0].ID)
	assert.Equal(t, "stale", students[1].ID)
}

func TestSortStudents_TieBreakByUpdate(t *testing.T) {
	now := time.Now()
	older := now.Add(-10 * time.Minute)
	students := []models.User{
		{ID: "older", ProfileCompletionPercent: 50, UpdatedAt: older},
		{ID: "newer", ProfileCompletionPercent: 50, UpdatedAt: now},
	}

	ranking.SortStudents(students, nil, now)

	// Recency only separates at day granularity, so the explicit
	// tie-break on UpdatedAt decides here.
	assert.Equal(t, "newer", students[0].ID)
}

func TestSortStudents_ContactBoost(t *testing.T) {
	now := time.Now()
	students := []models.User{
		{ID: "quiet", ProfileCompletionPercent: 60, UpdatedAt: now},
		{ID: "contacted", ProfileCompletionPercent: 60, UpdatedAt: now},
	}

	ranking.SortStudents(students, map[string]int64{"contacted": 20}, now)

	assert.Equal(t, "contacted", students[0].ID)
}
