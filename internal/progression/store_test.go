package progression

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersister struct {
	saves int
	err   error
	last  []byte
}

func (p *fakePersister) Save(state *State) error {
	p.saves++
	if p.err != nil {
		return p.err
	}
	data, err := state.Encode()
	if err != nil {
		return err
	}
	p.last = data
	return nil
}

// newTestStore 返回固定时钟的引擎，返回的指针用于在测试中拨动时钟
func newTestStore(t *testing.T, state *State) (*Store, *fakePersister, *time.Time) {
	t.Helper()

	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	persister := &fakePersister{}
	store := NewStore(state, persister, nil)
	store.now = func() time.Time { return clock }
	return store, persister, &clock
}

func TestEarnXPValidation(t *testing.T) {
	store, persister, _ := newTestStore(t, nil)

	assert.ErrorIs(t, store.EarnXP(0, "test"), ErrInvalidXPAmount)
	assert.ErrorIs(t, store.EarnXP(-10, "test"), ErrInvalidXPAmount)
	assert.ErrorIs(t, store.EarnXP(10, ""), ErrEmptyXPSource)

	assert.Equal(t, 0, store.Snapshot().TotalXP)
	assert.Zero(t, persister.saves)
}

func TestEarnXPLevelUpActivity(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	require.NoError(t, store.EarnXP(100, "test"))

	assert.Equal(t, 2, store.Level().Level)
	activities := store.Activities()
	require.NotEmpty(t, activities)
	assert.Equal(t, ActivityLevelUp, activities[0].Type)
	assert.Equal(t, "Reached Level 2", activities[0].Title)
}

func TestCompleteModuleIdempotent(t *testing.T) {
	store, _, clock := newTestStore(t, nil)

	require.NoError(t, store.CompleteModule(LabPricing))
	xpAfterFirst := store.Snapshot().TotalXP
	assert.Equal(t, XPFor(ActionCompleteLab)+XPFor(ActionFirstCompletion), xpAfterFirst)

	record, ok := store.ModuleRecord(LabPricing)
	require.True(t, ok)
	assert.True(t, record.Completed)
	assert.Equal(t, 100, record.Progress)
	firstCompletedAt := record.CompletedAt
	require.NotNil(t, firstCompletedAt)

	*clock = clock.Add(48 * time.Hour)
	require.NoError(t, store.CompleteModule(LabPricing))

	assert.Equal(t, xpAfterFirst, store.Snapshot().TotalXP, "repeat completion must not award xp")
	record, _ = store.ModuleRecord(LabPricing)
	assert.Equal(t, firstCompletedAt, record.CompletedAt, "repeat completion must not refresh completedAt")
}

func TestCompleteModuleUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	assert.ErrorIs(t, store.CompleteModule("underwater-basket-weaving"), ErrUnknownModule)
	assert.Equal(t, 0, store.Snapshot().TotalXP)
}

func TestUpdateModuleAccessOnlyStampsField(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	require.NoError(t, store.UpdateModuleAccess(LabTargeting))

	record, ok := store.ModuleRecord(LabTargeting)
	require.True(t, ok)
	assert.NotNil(t, record.LastAccessed)
	assert.False(t, record.Completed)
	assert.Equal(t, 0, store.Snapshot().TotalXP)
	assert.Empty(t, store.Activities())
}

func TestRecordQuizRewards(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	require.NoError(t, store.RecordQuiz(false))
	assert.Equal(t, XPFor(ActionCompleteQuiz), store.Snapshot().TotalXP)

	require.NoError(t, store.RecordQuiz(true))
	snap := store.Snapshot()
	assert.Equal(t, 2, snap.QuizzesCompleted)
	assert.Equal(t, 1, snap.PerfectQuizzes)
	assert.Equal(t, 2*XPFor(ActionCompleteQuiz)+XPFor(ActionPerfectQuiz), snap.TotalXP)
}

func TestAchievementUnlockIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	require.NoError(t, store.RecordQuiz(false))

	count := 0
	for _, ua := range store.Achievements() {
		if ua.ID == "quiz-rookie" {
			count++
		}
	}
	require.Equal(t, 1, count)

	assert.Empty(t, store.CheckAndUnlockAchievements())

	count = 0
	for _, ua := range store.Achievements() {
		if ua.ID == "quiz-rookie" {
			count++
		}
	}
	assert.Equal(t, 1, count, "re-evaluation must not duplicate an unlock")
}

func TestActivityLogBounded(t *testing.T) {
	store, _, clock := newTestStore(t, nil)

	for i := 0; i < 60; i++ {
		*clock = clock.Add(time.Minute)
		require.NoError(t, store.RecordQuiz(false))
	}

	activities := store.Activities()
	require.Len(t, activities, maxActivities)
	for i := 1; i < len(activities); i++ {
		require.False(t, activities[i-1].Timestamp.Before(activities[i].Timestamp),
			"activities must be newest first")
	}
	assert.Equal(t, *clock, activities[0].Timestamp)
}

func TestUpdateStreakScenario(t *testing.T) {
	dayN := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	state := NewState()
	state.Streak = 3
	state.DaysActive = 10
	state.LastLogin = &dayN

	store, _, clock := newTestStore(t, state)

	// 同一天再次调用：无变化
	*clock = dayN.Add(6 * time.Hour)
	require.NoError(t, store.UpdateStreak())
	snap := store.Snapshot()
	assert.Equal(t, 3, snap.Streak)
	assert.Equal(t, 10, snap.DaysActive)
	assert.Equal(t, 0, snap.TotalXP)

	// 次日：连续天数+1
	*clock = dayN.AddDate(0, 0, 1)
	require.NoError(t, store.UpdateStreak())
	snap = store.Snapshot()
	assert.Equal(t, 4, snap.Streak)
	assert.Equal(t, 11, snap.DaysActive)
	assert.Equal(t, XPFor(ActionDailyLogin), snap.TotalXP)

	// 隔了一天：重置为1，活跃天数仍然+1
	*clock = dayN.AddDate(0, 0, 3)
	require.NoError(t, store.UpdateStreak())
	snap = store.Snapshot()
	assert.Equal(t, 1, snap.Streak)
	assert.Equal(t, 12, snap.DaysActive)
}

func TestUpdateStreakWeekBonus(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC)
	state := NewState()
	state.Streak = 6
	state.DaysActive = 6
	state.LastLogin = &yesterday

	store, _, clock := newTestStore(t, state)
	*clock = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

	require.NoError(t, store.UpdateStreak())

	snap := store.Snapshot()
	assert.Equal(t, 7, snap.Streak)
	assert.Equal(t, XPFor(ActionDailyLogin)+XPFor(ActionWeekStreak), snap.TotalXP)
}

func TestLeaderboardOrderingTimed(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	entries := []LeaderboardEntry{
		{Name: "Ana", Accuracy: 90, TimeSeconds: 120, Questions: 10, Mode: ModeTimed},
		{Name: "Ben", Accuracy: 90, TimeSeconds: 80, Questions: 10, Mode: ModeTimed},
		{Name: "Coy", Accuracy: 95, TimeSeconds: 200, Questions: 10, Mode: ModeTimed},
	}
	for _, e := range entries {
		require.NoError(t, store.AddLeaderboardEntry("positioning", e))
	}

	board := store.Leaderboard("positioning")
	require.Len(t, board, 3)
	assert.Equal(t, "Coy", board[0].Name)
	assert.Equal(t, "Ben", board[1].Name)
	assert.Equal(t, "Ana", board[2].Name)
}

func TestLeaderboardOrderingPractice(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	require.NoError(t, store.AddLeaderboardEntry("pricing", LeaderboardEntry{
		Name: "Few", Accuracy: 88, Questions: 5, TimeSeconds: 60, Mode: ModePractice,
	}))
	require.NoError(t, store.AddLeaderboardEntry("pricing", LeaderboardEntry{
		Name: "Many", Accuracy: 88, Questions: 20, TimeSeconds: 300, Mode: ModePractice,
	}))

	board := store.Leaderboard("pricing")
	require.Len(t, board, 2)
	assert.Equal(t, "Many", board[0].Name, "practice mode ties break by question count descending")
}

func TestLeaderboardTruncatedToTopTen(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	for i := 0; i < 12; i++ {
		require.NoError(t, store.AddLeaderboardEntry("segmentation", LeaderboardEntry{
			Name:        "Player",
			Accuracy:    float64(50 + i),
			TimeSeconds: 100,
			Questions:   10,
			Mode:        ModeTimed,
		}))
	}

	board := store.Leaderboard("segmentation")
	require.Len(t, board, 10)
	assert.Equal(t, 61.0, board[0].Accuracy)
	assert.Equal(t, 52.0, board[9].Accuracy)
}

func TestLeaderboardEntryValidation(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	assert.ErrorIs(t, store.AddLeaderboardEntry("", LeaderboardEntry{}), ErrEmptyConcept)
	assert.ErrorIs(t, store.AddLeaderboardEntry("pricing", LeaderboardEntry{
		Name: "X", Accuracy: 120, Questions: 10, Mode: ModeTimed,
	}), ErrInvalidEntry)
	assert.ErrorIs(t, store.AddLeaderboardEntry("pricing", LeaderboardEntry{
		Name: "X", Accuracy: 90, Questions: 10, Mode: "speedrun",
	}), ErrInvalidEntry)

	assert.Empty(t, store.Leaderboard("pricing"))
}

func TestQuizAnalyticsAggregation(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	require.NoError(t, store.RecordQuizAnalytics("positioning", QuizRecord{
		Questions: 10, Correct: 8, TimeSeconds: 120, Accuracy: 80, Difficulty: "medium",
	}))
	require.NoError(t, store.RecordQuizAnalytics("positioning", QuizRecord{
		Questions: 5, Correct: 5, TimeSeconds: 60, Accuracy: 100, Difficulty: "hard",
	}))

	a, ok := store.AnalyticsFor("positioning")
	require.True(t, ok)
	assert.Equal(t, 2, a.TotalQuizzes)
	assert.Equal(t, 15, a.TotalQuestions)
	assert.Equal(t, 13, a.CorrectAnswers)
	assert.Equal(t, 180, a.TotalTimeSeconds)
	assert.InDelta(t, 90.0, a.AverageAccuracy, 1e-9)
	assert.Equal(t, 100.0, a.BestAccuracy)
	assert.Equal(t, 60, a.FastestTime)
	assert.Equal(t, map[string]int{"medium": 1, "hard": 1}, a.ByDifficulty)
}

func TestQuizAnalyticsValidation(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	assert.ErrorIs(t, store.RecordQuizAnalytics("", QuizRecord{Questions: 1}), ErrEmptyConcept)
	assert.ErrorIs(t, store.RecordQuizAnalytics("pricing", QuizRecord{
		Questions: 5, Correct: 7, Accuracy: 100,
	}), ErrInvalidQuizRecord)

	_, ok := store.AnalyticsFor("pricing")
	assert.False(t, ok)
}

func TestLabDataBlackboard(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	_, ok := store.LabData(LabSegmentation)
	assert.False(t, ok)

	first := json.RawMessage(`{"segments":["students","professionals"]}`)
	require.NoError(t, store.SaveLabData(LabSegmentation, first))

	second := json.RawMessage(`{"segments":["gamers"]}`)
	require.NoError(t, store.SaveLabData(LabSegmentation, second))

	got, ok := store.LabData(LabSegmentation)
	require.True(t, ok)
	assert.JSONEq(t, string(second), string(got), "last write wins")

	assert.ErrorIs(t, store.SaveLabData("not-a-lab", first), ErrUnknownModule)
}

func TestSimpleSetters(t *testing.T) {
	store, _, _ := newTestStore(t, nil)

	assert.ErrorIs(t, store.SetUserName(""), ErrEmptyUserName)
	require.NoError(t, store.SetUserName("Philippa"))

	assert.ErrorIs(t, store.SetTheme("sepia"), ErrInvalidTheme)
	require.NoError(t, store.SetTheme("dark"))

	require.NoError(t, store.AddPersona("Budget-conscious student"))

	snap := store.Snapshot()
	assert.Equal(t, "Philippa", snap.UserName)
	assert.Equal(t, "dark", snap.Theme)
	assert.Equal(t, []string{"Budget-conscious student"}, snap.CustomPersonas)
}

func TestSaveFailureDoesNotFailMutation(t *testing.T) {
	store, persister, _ := newTestStore(t, nil)
	persister.err = errors.New("disk full")

	require.NoError(t, store.EarnXP(40, "test"))
	assert.Equal(t, 40, store.Snapshot().TotalXP, "in-memory state stays authoritative")
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, persister, _ := newTestStore(t, nil)

	require.NoError(t, store.CompleteModule(LabSegmentation))
	require.NoError(t, store.RecordQuiz(true))
	require.NoError(t, store.UpdateStreak())
	require.NoError(t, store.AddLeaderboardEntry("segmentation", LeaderboardEntry{
		Name: "Philippa", Accuracy: 90, TimeSeconds: 100, Questions: 10, Mode: ModeTimed,
	}))
	require.NoError(t, store.RecordQuizAnalytics("segmentation", QuizRecord{
		Questions: 10, Correct: 9, TimeSeconds: 100, Accuracy: 90, Difficulty: "easy",
	}))
	require.NoError(t, store.SaveLabData(LabSegmentation, json.RawMessage(`{"done":true}`)))

	restored, err := DecodeState(persister.last)
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot(), restored)
}

func TestDecodeCorruptSnapshot(t *testing.T) {
	_, err := DecodeState([]byte("{not json"))
	require.Error(t, err)

	// 引擎对缺失/损坏快照的降级路径：使用默认初始状态
	store := NewStore(nil, nil, nil)
	snap := store.Snapshot()
	assert.Equal(t, 0, snap.TotalXP)
	assert.Equal(t, "Marketer", snap.UserName)
	assert.Empty(t, snap.Activities)
}
