package config

// Profile completion weights, in percent. The sum caps at 100.
const (
	CompletionName     = 10
	CompletionEmail    = 10
	CompletionImage    = 15
	CompletionCategory = 15
	CompletionSemester = 15
	CompletionBio      = 20
	CompletionProject  = 15
)

// Student ranking formula: completion*0.5 + recency*0.3 + contact*0.2.
const (
	RankCompletionWeight = 0.5
	RankRecencyWeight    = 0.3
	RankContactWeight    = 0.2

	// Recency decays from 100 by this many points per day since the
	// profile was last updated.
	RecencyDecayPerDay = 2
	// Contact score grows by this many points per sent message, capped
	// at 100.
	ContactPointsPerMessage = 5
)

// Skill match: category match contributes half the score, semester
// proximity the other half.
const (
	SkillCategoryScore  = 50
	SkillSemesterScore  = 50
	SkillSemesterSpread = 8
)

// Listing defaults
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)
