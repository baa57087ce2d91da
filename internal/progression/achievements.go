package progression

// 六个营销实验室的固定模块ID，成就判定与黑板数据都以此为键
const (
	LabSegmentation    = "market-segmentation"
	LabTargeting       = "targeting"
	LabPositioning     = "positioning"
	LabPricing         = "pricing-lab"
	LabProductStrategy = "product-strategy"
	LabPromotion       = "promotion"
)

// AllLabs 按课程顺序排列的实验室ID
var AllLabs = []string{
	LabSegmentation,
	LabTargeting,
	LabPositioning,
	LabPricing,
	LabProductStrategy,
	LabPromotion,
}

// AchievementStats 成就判定用的聚合统计快照
// 字段只包含单调递增的计数，保证已解锁的成就不会因重新评估而失效
type AchievementStats struct {
	TotalXP          int
	Level            int
	CompletedModules map[string]bool
	QuizzesCompleted int
	PerfectQuizzes   int
	AIInteractions   int
	Streak           int
	DaysActive       int
}

func (s AchievementStats) completedCount() int {
	n := 0
	for _, done := range s.CompletedModules {
		if done {
			n++
		}
	}
	return n
}

func (s AchievementStats) allLabsCompleted() bool {
	for _, lab := range AllLabs {
		if !s.CompletedModules[lab] {
			return false
		}
	}
	return true
}

// AchievementDefinition 静态成就定义，谓词必须是纯函数
type AchievementDefinition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    func(AchievementStats) bool `json:"-"`
}

// Registry 成就注册表。顺序决定新解锁成就的上报顺序，不影响最终集合
// 新增成就时谓词只能引用 AchievementStats 中单调递增的量
var Registry = []AchievementDefinition{
	{
		ID:          "first-steps",
		Title:       "First Steps",
		Description: "完成第一个营销实验室",
		Icon:        "🎯",
		Unlocked:    func(s AchievementStats) bool { return s.completedCount() >= 1 },
	},
	{
		ID:          "segment-scout",
		Title:       "Segment Scout",
		Description: "完成市场细分实验室",
		Icon:        "🔍",
		Unlocked:    func(s AchievementStats) bool { return s.CompletedModules[LabSegmentation] },
	},
	{
		ID:          "position-pro",
		Title:       "Position Pro",
		Description: "完成定位实验室",
		Icon:        "📌",
		Unlocked:    func(s AchievementStats) bool { return s.CompletedModules[LabPositioning] },
	},
	{
		ID:          "price-setter",
		Title:       "Price Setter",
		Description: "完成定价实验室",
		Icon:        "💰",
		Unlocked:    func(s AchievementStats) bool { return s.CompletedModules[LabPricing] },
	},
	{
		ID:          "full-funnel",
		Title:       "Full Funnel",
		Description: "完成全部六个实验室",
		Icon:        "🏆",
		Unlocked:    func(s AchievementStats) bool { return s.allLabsCompleted() },
	},
	{
		ID:          "quiz-rookie",
		Title:       "Quiz Rookie",
		Description: "完成第一个测验",
		Icon:        "📝",
		Unlocked:    func(s AchievementStats) bool { return s.QuizzesCompleted >= 1 },
	},
	{
		ID:          "quiz-veteran",
		Title:       "Quiz Veteran",
		Description: "完成10个测验",
		Icon:        "🎓",
		Unlocked:    func(s AchievementStats) bool { return s.QuizzesCompleted >= 10 },
	},
	{
		ID:          "perfectionist",
		Title:       "Perfectionist",
		Description: "取得一次满分测验",
		Icon:        "💯",
		Unlocked:    func(s AchievementStats) bool { return s.PerfectQuizzes >= 1 },
	},
	{
		ID:          "ai-apprentice",
		Title:       "AI Apprentice",
		Description: "完成5次AI辅助分析",
		Icon:        "🤖",
		Unlocked:    func(s AchievementStats) bool { return s.AIInteractions >= 5 },
	},
	{
		ID:          "ai-strategist",
		Title:       "AI Strategist",
		Description: "完成25次AI辅助分析",
		Icon:        "🧠",
		Unlocked:    func(s AchievementStats) bool { return s.AIInteractions >= 25 },
	},
	{
		ID:          "week-warrior",
		Title:       "Week Warrior",
		Description: "连续学习7天",
		Icon:        "🔥",
		Unlocked:    func(s AchievementStats) bool { return s.Streak >= 7 },
	},
	{
		ID:          "regular",
		Title:       "Regular",
		Description: "累计活跃30天",
		Icon:        "📅",
		Unlocked:    func(s AchievementStats) bool { return s.DaysActive >= 30 },
	},
	{
		ID:          "level-5",
		Title:       "Rising Marketer",
		Description: "达到5级",
		Icon:        "⭐",
		Unlocked:    func(s AchievementStats) bool { return s.Level >= 5 },
	},
	{
		ID:          "level-10",
		Title:       "Brand Builder",
		Description: "达到10级",
		Icon:        "🌟",
		Unlocked:    func(s AchievementStats) bool { return s.Level >= 10 },
	},
	{
		ID:          "level-20",
		Title:       "CMO Material",
		Description: "达到满级20级",
		Icon:        "👑",
		Unlocked:    func(s AchievementStats) bool { return s.Level >= MaxLevel },
	},
	{
		ID:          "xp-5000",
		Title:       "XP Hoarder",
		Description: "累计获得5000经验值",
		Icon:        "💎",
		Unlocked:    func(s AchievementStats) bool { return s.TotalXP >= 5000 },
	},
}

// EligibleAchievements 返回按注册表顺序排列的、谓词满足且尚未解锁的成就定义
// 纯函数，不修改 alreadyUnlocked
func EligibleAchievements(stats AchievementStats, alreadyUnlocked map[string]bool) []AchievementDefinition {
	var eligible []AchievementDefinition
	for _, def := range Registry {
		if alreadyUnlocked[def.ID] {
			continue
		}
		if def.Unlocked(stats) {
			eligible = append(eligible, def)
		}
	}
	return eligible
}

// AchievementByID 按ID查找成就定义
func AchievementByID(id string) (AchievementDefinition, bool) {
	for _, def := range Registry {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}
