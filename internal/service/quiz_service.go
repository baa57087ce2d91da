package service

import (
	"math"

	"marketing_edu_backend/internal/progression"
)

type QuizService struct {
	ProgressionSvc *ProgressionService
}

func NewQuizService(progressionSvc *ProgressionService) *QuizService {
	return &QuizService{ProgressionSvc: progressionSvc}
}

// QuizSubmission 一次测验的成绩单
type QuizSubmission struct {
	Concept     string `json:"concept" binding:"required"`
	Questions   int    `json:"questions" binding:"required,min=1"`
	Correct     int    `json:"correct" binding:"min=0"`
	TimeSeconds int    `json:"timeSeconds" binding:"required,min=1"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Mode        string `json:"mode" binding:"required,oneof=timed practice"`
}

// QuizResult 测验结算结果
type QuizResult struct {
	Accuracy    float64                        `json:"accuracy"`
	Perfect     bool                           `json:"perfect"`
	XPEarned    int                            `json:"xpEarned"`
	Level       progression.LevelInfo          `json:"level"`
	Leaderboard []progression.LeaderboardEntry `json:"leaderboard"`
}

// Submit 结算一次测验：计分、更新分析数据并冲榜
func (s *QuizService) Submit(userID uint, sub QuizSubmission) (*QuizResult, error) {
	accuracy := math.Round(float64(sub.Correct)/float64(sub.Questions)*10000) / 100
	perfect := sub.Correct == sub.Questions

	store := s.ProgressionSvc.StoreFor(userID)

	if err := store.RecordQuiz(perfect); err != nil {
		return nil, err
	}

	rec := progression.QuizRecord{
		Questions:   sub.Questions,
		Correct:     sub.Correct,
		TimeSeconds: sub.TimeSeconds,
		Accuracy:    accuracy,
		Difficulty:  sub.Difficulty,
	}
	if err := store.RecordQuizAnalytics(sub.Concept, rec); err != nil {
		return nil, err
	}

	state := store.Snapshot()
	entry := progression.LeaderboardEntry{
		Name:        state.UserName,
		Accuracy:    accuracy,
		TimeSeconds: sub.TimeSeconds,
		Questions:   sub.Questions,
		Mode:        progression.LeaderboardMode(sub.Mode),
	}
	if err := store.AddLeaderboardEntry(sub.Concept, entry); err != nil {
		return nil, err
	}

	xp := progression.XPFor(progression.ActionCompleteQuiz)
	if perfect {
		xp += progression.XPFor(progression.ActionPerfectQuiz)
	}

	return &QuizResult{
		Accuracy:    accuracy,
		Perfect:     perfect,
		XPEarned:    xp,
		Level:       store.Level(),
		Leaderboard: store.Leaderboard(sub.Concept),
	}, nil
}

// Leaderboard 返回某概念的前十榜单
func (s *QuizService) Leaderboard(userID uint, concept string) []progression.LeaderboardEntry {
	return s.ProgressionSvc.StoreFor(userID).Leaderboard(concept)
}

// Analytics 返回某概念的聚合分析数据
func (s *QuizService) Analytics(userID uint, concept string) (progression.TopicAnalytics, bool) {
	return s.ProgressionSvc.StoreFor(userID).AnalyticsFor(concept)
}
