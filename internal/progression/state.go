package progression

import (
	"encoding/json"
	"time"
)

// SnapshotVersion 当前快照格式版本号
const SnapshotVersion = 1

// 活动日志最多保留的条数，超出时丢弃最旧的
const maxActivities = 50

// ActivityType 活动日志类型
type ActivityType string

const (
	ActivityLabComplete  ActivityType = "lab_complete"
	ActivityQuizComplete ActivityType = "quiz_complete"
	ActivityLevelUp      ActivityType = "level_up"
	ActivityAchievement  ActivityType = "achievement"
)

// Activity 不可变的活动日志条目，新条目插在最前
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Title     string       `json:"title"`
	Timestamp time.Time    `json:"timestamp"`
	XPEarned  int          `json:"xpEarned,omitempty"`
}

// ModuleProgress 单个实验室的进度记录
type ModuleProgress struct {
	Progress     int        `json:"progress"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
}

// UnlockedAchievement 已解锁的成就，集合只增不减
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// LeaderboardMode 排行榜模式，决定同准确率时的次级排序
type LeaderboardMode string

const (
	ModeTimed    LeaderboardMode = "timed"    // 时间升序
	ModePractice LeaderboardMode = "practice" // 题数降序
)

// LeaderboardEntry 某个概念排行榜中的一条成绩
type LeaderboardEntry struct {
	Name        string          `json:"name"`
	Accuracy    float64         `json:"accuracy"`
	TimeSeconds int             `json:"timeSeconds"`
	Questions   int             `json:"questions"`
	Mode        LeaderboardMode `json:"mode"`
	RecordedAt  time.Time       `json:"recordedAt"`
}

// QuizRecord 单次测验的结果，用于增量更新分析数据
type QuizRecord struct {
	Questions   int     `json:"questions"`
	Correct     int     `json:"correct"`
	TimeSeconds int     `json:"timeSeconds"`
	Accuracy    float64 `json:"accuracy"`
	Difficulty  string  `json:"difficulty"`
}

// TopicAnalytics 按概念聚合的测验分析数据
// 只做增量更新，不保留原始测验历史
type TopicAnalytics struct {
	TotalQuizzes     int            `json:"totalQuizzes"`
	TotalQuestions   int            `json:"totalQuestions"`
	CorrectAnswers   int            `json:"correctAnswers"`
	TotalTimeSeconds int            `json:"totalTimeSeconds"`
	AverageAccuracy  float64        `json:"averageAccuracy"`
	BestAccuracy     float64        `json:"bestAccuracy"`
	FastestTime      int            `json:"fastestTime"`
	ByDifficulty     map[string]int `json:"byDifficulty"`
}

// State 进度引擎的完整可序列化状态
// 每次成功变更后整体写穿到持久层，启动时整体还原
type State struct {
	Version        int      `json:"version"`
	Theme          string   `json:"theme"`
	UserName       string   `json:"userName"`
	CustomPersonas []string `json:"customPersonas,omitempty"`

	TotalXP        int                        `json:"totalXp"`
	ModuleProgress map[string]*ModuleProgress `json:"moduleProgress"`

	UnlockedAchievements []UnlockedAchievement `json:"unlockedAchievements"`

	QuizzesCompleted int `json:"quizzesCompleted"`
	PerfectQuizzes   int `json:"perfectQuizzes"`
	AIInteractions   int `json:"aiInteractions"`

	Streak     int        `json:"streak"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	DaysActive int        `json:"daysActive"`

	Activities   []Activity                    `json:"activities"`
	Leaderboards map[string][]LeaderboardEntry `json:"leaderboards"`
	Analytics    map[string]*TopicAnalytics    `json:"quizAnalytics"`

	// 实验室之间交接结果用的黑板，内容对引擎不透明，后写覆盖先写
	LabData map[string]json.RawMessage `json:"labData"`
}

// NewState 返回文档化的默认初始状态
func NewState() *State {
	return &State{
		Version:        SnapshotVersion,
		Theme:          "light",
		UserName:       "Marketer",
		ModuleProgress: make(map[string]*ModuleProgress),
		Leaderboards:   make(map[string][]LeaderboardEntry),
		Analytics:      make(map[string]*TopicAnalytics),
		LabData:        make(map[string]json.RawMessage),
	}
}

// normalize 补齐反序列化后可能缺失的map，避免旧快照导致空指针
func (s *State) normalize() {
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	if s.ModuleProgress == nil {
		s.ModuleProgress = make(map[string]*ModuleProgress)
	}
	if s.Leaderboards == nil {
		s.Leaderboards = make(map[string][]LeaderboardEntry)
	}
	if s.Analytics == nil {
		s.Analytics = make(map[string]*TopicAnalytics)
	}
	if s.LabData == nil {
		s.LabData = make(map[string]json.RawMessage)
	}
}

// DecodeState 从快照字节流还原状态，数据损坏时返回错误由调用方退回默认状态
func DecodeState(data []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	state.normalize()
	return &state, nil
}

// Encode 序列化为版本化的快照字节流
func (s *State) Encode() ([]byte, error) {
	return json.Marshal(s)
}
