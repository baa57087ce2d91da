package service

import (
	"sync"

	"go.uber.org/zap"

	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/internal/repository"
	"marketing_edu_backend/pkg/logger"
)

// ProgressionService 管理每个用户的进度引擎实例
// 同一用户的所有请求共享同一个 Store，保证并发安全和写穿持久化
type ProgressionService struct {
	SnapshotRepo *repository.SnapshotRepository

	mu     sync.Mutex
	stores map[uint]*progression.Store
}

func NewProgressionService(snapshotRepo *repository.SnapshotRepository) *ProgressionService {
	return &ProgressionService{
		SnapshotRepo: snapshotRepo,
		stores:       make(map[uint]*progression.Store),
	}
}

// StoreFor 返回用户的进度引擎，首次访问时从快照加载
// 快照缺失或损坏时使用默认状态，不阻断用户
func (s *ProgressionService) StoreFor(userID uint) *progression.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[userID]; ok {
		return store
	}

	state, err := s.SnapshotRepo.Load(userID)
	if err != nil {
		logger.Log.Warn("进度快照损坏，使用默认状态",
			zap.Uint("user_id", userID),
			zap.Error(err))
		state = nil
	}
	if state == nil {
		state = progression.NewState()
	}

	store := progression.NewStore(state, s.SnapshotRepo.PersisterFor(userID), logger.Log)
	s.stores[userID] = store
	return store
}

// Evict 移除用户的缓存实例（用户注销等场景）
func (s *ProgressionService) Evict(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stores, userID)
}

// Summary 聚合用户进度的概览数据
type Summary struct {
	Level        progression.LevelInfo                  `json:"level"`
	Modules      map[string]*progression.ModuleProgress `json:"modules"`
	Achievements []progression.UnlockedAchievement      `json:"achievements"`
	Activities   []progression.Activity                 `json:"activities"`
	Streak       int                                    `json:"streak"`
	DaysActive   int                                    `json:"daysActive"`
	Quizzes      int                                    `json:"quizzesCompleted"`
}

// Summarize 组装进度概览
func (s *ProgressionService) Summarize(userID uint) Summary {
	store := s.StoreFor(userID)
	state := store.Snapshot()

	return Summary{
		Level:        store.Level(),
		Modules:      state.ModuleProgress,
		Achievements: store.Achievements(),
		Activities:   store.Activities(),
		Streak:       state.Streak,
		DaysActive:   state.DaysActive,
		Quizzes:      state.QuizzesCompleted,
	}
}
