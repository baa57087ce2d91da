package progression

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Persister 持久化适配器。每次成功变更后整体写入快照
// 写入失败只记录告警，不回滚内存状态（会话期内内存状态是权威数据）
type Persister interface {
	Save(state *State) error
}

// Store 进度引擎。所有领域状态的唯一持有者，全部变更走公开操作，
// 每个操作在同一临界区内完成 计数更新 -> 升级检测 -> 成就评估 -> 日志追加 -> 持久化，
// 对调用方原子可见
type Store struct {
	mu        sync.Mutex
	state     *State
	persister Persister
	log       *zap.Logger
	now       func() time.Time
}

// NewStore 构造进度引擎。state 为 nil 时使用默认初始状态（快照缺失或损坏的降级路径），
// persister 为 nil 时只保留内存状态，logger 为 nil 时静默
func NewStore(state *State, persister Persister, log *zap.Logger) *Store {
	if state == nil {
		state = NewState()
	}
	state.normalize()
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		state:     state,
		persister: persister,
		log:       log,
		now:       time.Now,
	}
}

// EarnXP 增加经验值并级联升级检测与成就评估
func (s *Store) EarnXP(amount int, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return ErrInvalidXPAmount
	}
	if source == "" {
		return ErrEmptyXPSource
	}

	s.earnXP(amount, source)
	s.commit()
	return nil
}

// earnXP 已持锁。加经验并在升级时追加 level_up 活动
func (s *Store) earnXP(amount int, source string) {
	before := LevelInfoFor(s.state.TotalXP)
	s.state.TotalXP += amount
	after := LevelInfoFor(s.state.TotalXP)

	s.log.Debug("xp earned",
		zap.Int("amount", amount),
		zap.String("source", source),
		zap.Int("totalXp", s.state.TotalXP),
	)

	if after.Level > before.Level {
		s.appendActivity(Activity{
			Type:  ActivityLevelUp,
			Title: fmt.Sprintf("Reached Level %d", after.Level),
		})
	}
}

// CompleteModule 标记实验室完成。重复调用安全：不重复发奖，CompletedAt 不变
func (s *Store) CompleteModule(moduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isKnownLab(moduleID) {
		return ErrUnknownModule
	}

	record := s.moduleRecord(moduleID)
	if record.Completed {
		return nil
	}

	now := s.now()
	record.Progress = 100
	record.Completed = true
	record.CompletedAt = &now

	reward := XPFor(ActionCompleteLab) + XPFor(ActionFirstCompletion)
	s.earnXP(reward, "lab:"+moduleID)
	s.appendActivity(Activity{
		Type:     ActivityLabComplete,
		Title:    "Completed " + moduleID,
		XPEarned: reward,
	})

	s.commit()
	return nil
}

// UpdateModuleAccess 记录实验室访问时间，无其他派生效果
func (s *Store) UpdateModuleAccess(moduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isKnownLab(moduleID) {
		return ErrUnknownModule
	}

	now := s.now()
	s.moduleRecord(moduleID).LastAccessed = &now
	s.persist()
	return nil
}

// RecordQuiz 记录一次完成的测验并发放奖励，perfect 表示满分
func (s *Store) RecordQuiz(perfect bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.QuizzesCompleted++
	reward := XPFor(ActionCompleteQuiz)
	if perfect {
		s.state.PerfectQuizzes++
		reward += XPFor(ActionPerfectQuiz)
	}

	s.earnXP(reward, "quiz")
	s.appendActivity(Activity{
		Type:     ActivityQuizComplete,
		Title:    "Completed a quiz",
		XPEarned: reward,
	})

	s.commit()
	return nil
}

// RecordAIInteraction 记录一次AI辅助分析并发放固定奖励
func (s *Store) RecordAIInteraction() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.AIInteractions++
	s.earnXP(XPFor(ActionAIAnalysis), "ai")
	s.commit()
	return nil
}

// UpdateStreak 按自然日维护连续学习天数。同一天内重复调用是安全的空操作；
// 相隔正好一天则连续天数+1，连续满7天额外发放周奖励；中断则重置为1
func (s *Store) UpdateStreak() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	last := s.state.LastLogin

	if last != nil && calendarDaysBetween(*last, now) == 0 {
		return nil
	}

	if last != nil && calendarDaysBetween(*last, now) == 1 {
		s.state.Streak++
	} else {
		s.state.Streak = 1
	}

	s.state.DaysActive++
	s.state.LastLogin = &now

	s.earnXP(XPFor(ActionDailyLogin), "daily_login")
	if s.state.Streak == 7 {
		s.earnXP(XPFor(ActionWeekStreak), "week_streak")
	}

	s.commit()
	return nil
}

// AddLeaderboardEntry 插入排行榜成绩，按准确率降序的前10名保留
// 同准确率时计时模式按用时升序，练习模式按题数降序
func (s *Store) AddLeaderboardEntry(concept string, entry LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if concept == "" {
		return ErrEmptyConcept
	}
	if entry.Name == "" || entry.Accuracy < 0 || entry.Accuracy > 100 ||
		entry.TimeSeconds < 0 || entry.Questions <= 0 {
		return ErrInvalidEntry
	}
	if entry.Mode != ModeTimed && entry.Mode != ModePractice {
		return ErrInvalidEntry
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = s.now()
	}

	board := append(s.state.Leaderboards[concept], entry)
	sort.SliceStable(board, func(i, j int) bool {
		a, b := board[i], board[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if a.Mode == ModePractice && b.Mode == ModePractice {
			return a.Questions > b.Questions
		}
		return a.TimeSeconds < b.TimeSeconds
	})
	if len(board) > 10 {
		board = board[:10]
	}
	s.state.Leaderboards[concept] = board

	s.persist()
	return nil
}

// RecordQuizAnalytics 按概念增量更新测验分析数据，首次使用时创建记录
func (s *Store) RecordQuizAnalytics(concept string, rec QuizRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if concept == "" {
		return ErrEmptyConcept
	}
	if rec.Questions <= 0 || rec.Correct < 0 || rec.Correct > rec.Questions ||
		rec.TimeSeconds < 0 || rec.Accuracy < 0 || rec.Accuracy > 100 {
		return ErrInvalidQuizRecord
	}

	a, ok := s.state.Analytics[concept]
	if !ok {
		a = &TopicAnalytics{ByDifficulty: make(map[string]int)}
		s.state.Analytics[concept] = a
	}
	if a.ByDifficulty == nil {
		a.ByDifficulty = make(map[string]int)
	}

	a.TotalQuizzes++
	a.TotalQuestions += rec.Questions
	a.CorrectAnswers += rec.Correct
	a.TotalTimeSeconds += rec.TimeSeconds

	// 增量加权平均，不依赖原始历史
	a.AverageAccuracy += (rec.Accuracy - a.AverageAccuracy) / float64(a.TotalQuizzes)

	if rec.Accuracy > a.BestAccuracy {
		a.BestAccuracy = rec.Accuracy
	}
	if a.TotalQuizzes == 1 || rec.TimeSeconds < a.FastestTime {
		a.FastestTime = rec.TimeSeconds
	}
	if rec.Difficulty != "" {
		a.ByDifficulty[rec.Difficulty]++
	}

	s.persist()
	return nil
}

// SaveLabData 写入实验室数据黑板，内容不做校验，后写覆盖先写
func (s *Store) SaveLabData(lab string, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isKnownLab(lab) {
		return ErrUnknownModule
	}

	buf := make(json.RawMessage, len(data))
	copy(buf, data)
	s.state.LabData[lab] = buf

	s.persist()
	return nil
}

// LabData 读取黑板上某个实验室最后写入的数据
func (s *Store) LabData(lab string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.state.LabData[lab]
	if !ok {
		return nil, false
	}
	buf := make(json.RawMessage, len(data))
	copy(buf, data)
	return buf, true
}

// SetUserName 设置用户名
func (s *Store) SetUserName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return ErrEmptyUserName
	}
	s.state.UserName = name
	s.persist()
	return nil
}

// SetTheme 切换主题
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if theme != "light" && theme != "dark" {
		return ErrInvalidTheme
	}
	s.state.Theme = theme
	s.persist()
	return nil
}

// AddPersona 追加自定义用户画像
func (s *Store) AddPersona(persona string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if persona == "" {
		return ErrEmptyPersona
	}
	s.state.CustomPersonas = append(s.state.CustomPersonas, persona)
	s.persist()
	return nil
}

// CheckAndUnlockAchievements 对当前统计快照评估成就注册表，返回本次新解锁的成就
// 变更操作内部都会级联调用，外部协作者也可以直接触发
func (s *Store) CheckAndUnlockAchievements() []AchievementDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlocked := s.unlockAchievements()
	if len(unlocked) > 0 {
		s.persist()
	}
	return unlocked
}

// Level 当前等级信息，按需从总经验值重新计算
func (s *Store) Level() LevelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LevelInfoFor(s.state.TotalXP)
}

// Snapshot 返回当前状态的深拷贝
func (s *Store) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.state.Encode()
	if err != nil {
		s.log.Error("failed to encode progression state", zap.Error(err))
		return NewState()
	}
	clone, err := DecodeState(data)
	if err != nil {
		s.log.Error("failed to decode progression state", zap.Error(err))
		return NewState()
	}
	return clone
}

// Activities 最近的活动日志，新在前，最多50条
func (s *Store) Activities() []Activity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Activity, len(s.state.Activities))
	copy(out, s.state.Activities)
	return out
}

// Achievements 已解锁的成就列表
func (s *Store) Achievements() []UnlockedAchievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UnlockedAchievement, len(s.state.UnlockedAchievements))
	copy(out, s.state.UnlockedAchievements)
	return out
}

// Leaderboard 某个概念的排行榜
func (s *Store) Leaderboard(concept string) []LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.state.Leaderboards[concept]
	out := make([]LeaderboardEntry, len(board))
	copy(out, board)
	return out
}

// AnalyticsFor 某个概念的测验分析数据
func (s *Store) AnalyticsFor(concept string) (TopicAnalytics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.state.Analytics[concept]
	if !ok {
		return TopicAnalytics{}, false
	}
	return *a, true
}

// ModuleRecord 某个实验室的进度记录副本
func (s *Store) ModuleRecord(moduleID string) (ModuleProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.state.ModuleProgress[moduleID]
	if !ok {
		return ModuleProgress{}, false
	}
	return *record, true
}

// commit 已持锁。每个变更操作末尾的统一级联点：先评估成就，再写穿持久层
func (s *Store) commit() {
	s.unlockAchievements()
	s.persist()
}

// unlockAchievements 已持锁。解锁所有新满足的成就并追加活动日志
func (s *Store) unlockAchievements() []AchievementDefinition {
	unlockedSet := make(map[string]bool, len(s.state.UnlockedAchievements))
	for _, ua := range s.state.UnlockedAchievements {
		unlockedSet[ua.ID] = true
	}

	newly := EligibleAchievements(s.stats(), unlockedSet)
	for _, def := range newly {
		s.state.UnlockedAchievements = append(s.state.UnlockedAchievements, UnlockedAchievement{
			ID:         def.ID,
			UnlockedAt: s.now(),
		})
		s.appendActivity(Activity{
			Type:  ActivityAchievement,
			Title: "Unlocked: " + def.Title,
		})
	}
	return newly
}

// stats 已持锁。构建成就判定用的聚合统计快照
func (s *Store) stats() AchievementStats {
	completed := make(map[string]bool, len(s.state.ModuleProgress))
	for id, record := range s.state.ModuleProgress {
		if record.Completed {
			completed[id] = true
		}
	}

	return AchievementStats{
		TotalXP:          s.state.TotalXP,
		Level:            LevelInfoFor(s.state.TotalXP).Level,
		CompletedModules: completed,
		QuizzesCompleted: s.state.QuizzesCompleted,
		PerfectQuizzes:   s.state.PerfectQuizzes,
		AIInteractions:   s.state.AIInteractions,
		Streak:           s.state.Streak,
		DaysActive:       s.state.DaysActive,
	}
}

// persist 已持锁。写穿快照，失败只告警
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.state); err != nil {
		s.log.Warn("failed to persist progression snapshot", zap.Error(err))
	}
}

// appendActivity 已持锁。新活动插在最前，日志上限50条
func (s *Store) appendActivity(a Activity) {
	a.ID = uuid.New().String()
	a.Timestamp = s.now()

	s.state.Activities = append([]Activity{a}, s.state.Activities...)
	if len(s.state.Activities) > maxActivities {
		s.state.Activities = s.state.Activities[:maxActivities]
	}
}

// moduleRecord 已持锁。懒创建实验室进度记录
func (s *Store) moduleRecord(moduleID string) *ModuleProgress {
	record, ok := s.state.ModuleProgress[moduleID]
	if !ok {
		record = &ModuleProgress{}
		s.state.ModuleProgress[moduleID] = record
	}
	return record
}

func isKnownLab(id string) bool {
	for _, lab := range AllLabs {
		if lab == id {
			return true
		}
	}
	return false
}

// calendarDaysBetween 两个时刻所在自然日的差值（b在a之后为正）
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
