package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelInfoBoundaries(t *testing.T) {
	assert.Equal(t, 1, LevelInfoFor(0).Level)
	assert.Equal(t, 1, LevelInfoFor(99).Level)
	assert.Equal(t, 2, LevelInfoFor(100).Level)

	top := levelThresholds[MaxLevel-1]
	assert.Equal(t, MaxLevel, LevelInfoFor(top).Level)

	saturated := LevelInfoFor(top + 1_000_000)
	assert.Equal(t, MaxLevel, saturated.Level)
	assert.Equal(t, 0, saturated.XPNeededForNextLevel)
	assert.Equal(t, 100.0, saturated.ProgressPercent)
}

func TestLevelInfoNegativeClampsToZero(t *testing.T) {
	assert.Equal(t, LevelInfoFor(0), LevelInfoFor(-500))
}

func TestLevelMonotonicity(t *testing.T) {
	prev := 0
	for xp := 0; xp <= levelThresholds[MaxLevel-1]+500; xp += 7 {
		level := LevelInfoFor(xp).Level
		require.GreaterOrEqual(t, level, prev, "level decreased at xp=%d", xp)
		prev = level
	}
}

func TestProgressPercentBounds(t *testing.T) {
	for xp := 0; xp <= levelThresholds[MaxLevel-1]+500; xp += 13 {
		info := LevelInfoFor(xp)
		require.GreaterOrEqual(t, info.ProgressPercent, 0.0, "xp=%d", xp)
		require.LessOrEqual(t, info.ProgressPercent, 100.0, "xp=%d", xp)
	}
}

func TestLevelInfoNeededXP(t *testing.T) {
	info := LevelInfoFor(120)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 100, info.XPForCurrentLevel)
	assert.Equal(t, 250, info.XPForNextLevel)
	assert.Equal(t, 130, info.XPNeededForNextLevel)
}

func TestThresholdsStrictlyIncreasing(t *testing.T) {
	require.Equal(t, 0, levelThresholds[0])
	for i := 1; i < MaxLevel; i++ {
		require.Greater(t, levelThresholds[i], levelThresholds[i-1])
	}
}
