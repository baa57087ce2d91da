package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleAchievementsSkipsUnlocked(t *testing.T) {
	stats := AchievementStats{QuizzesCompleted: 1}

	first := EligibleAchievements(stats, nil)
	require.Len(t, first, 1)
	assert.Equal(t, "quiz-rookie", first[0].ID)

	second := EligibleAchievements(stats, map[string]bool{"quiz-rookie": true})
	assert.Empty(t, second)
}

func TestEligibleAchievementsDoesNotMutateUnlockedSet(t *testing.T) {
	unlocked := map[string]bool{"first-steps": true}
	EligibleAchievements(AchievementStats{QuizzesCompleted: 10, PerfectQuizzes: 1}, unlocked)
	assert.Equal(t, map[string]bool{"first-steps": true}, unlocked)
}

func TestEligibleAchievementsRegistryOrder(t *testing.T) {
	stats := AchievementStats{
		CompletedModules: map[string]bool{LabSegmentation: true},
		QuizzesCompleted: 1,
	}

	got := EligibleAchievements(stats, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "first-steps", got[0].ID)
	assert.Equal(t, "segment-scout", got[1].ID)
	assert.Equal(t, "quiz-rookie", got[2].ID)
}

func TestFullFunnelRequiresAllLabs(t *testing.T) {
	completed := make(map[string]bool)
	for _, lab := range AllLabs[:len(AllLabs)-1] {
		completed[lab] = true
	}

	def, ok := AchievementByID("full-funnel")
	require.True(t, ok)
	assert.False(t, def.Unlocked(AchievementStats{CompletedModules: completed}))

	completed[AllLabs[len(AllLabs)-1]] = true
	assert.True(t, def.Unlocked(AchievementStats{CompletedModules: completed}))
}

func TestRegistryIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Registry {
		require.False(t, seen[def.ID], "duplicate achievement id %s", def.ID)
		require.NotNil(t, def.Unlocked)
		seen[def.ID] = true
	}
}
