package progression

import "fmt"

// Action 奖励表中的动作名
type Action string

const (
	ActionCompleteLab     Action = "complete_lab"
	ActionFirstCompletion Action = "first_completion"
	ActionCompleteQuiz    Action = "complete_quiz"
	ActionPerfectQuiz     Action = "perfect_quiz"
	ActionAIAnalysis      Action = "ai_analysis"
	ActionDailyLogin      Action = "daily_login"
	ActionWeekStreak      Action = "week_streak"
)

// rewardTable 固定的动作 -> XP 映射
var rewardTable = map[Action]int{
	ActionCompleteLab:     100,
	ActionFirstCompletion: 50,
	ActionCompleteQuiz:    30,
	ActionPerfectQuiz:     20,
	ActionAIAnalysis:      10,
	ActionDailyLogin:      15,
	ActionWeekStreak:      100,
}

// XPFor 返回动作对应的XP奖励。传入未知动作属于编程错误，直接panic
func XPFor(action Action) int {
	xp, ok := rewardTable[action]
	if !ok {
		panic(fmt.Sprintf("progression: unknown reward action %q", action))
	}
	return xp
}
