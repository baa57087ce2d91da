package progression

// MaxLevel 等级上限
const MaxLevel = 20

// levelThresholds 各等级所需的累计经验值，下标0对应等级1（阈值0）
// 阈值严格递增，超过最高阈值的经验值一律饱和在 MaxLevel
var levelThresholds = [MaxLevel]int{
	0,     // Lv.1
	100,   // Lv.2
	250,   // Lv.3
	450,   // Lv.4
	700,   // Lv.5
	1000,  // Lv.6
	1350,  // Lv.7
	1750,  // Lv.8
	2200,  // Lv.9
	2700,  // Lv.10
	3250,  // Lv.11
	3850,  // Lv.12
	4500,  // Lv.13
	5200,  // Lv.14
	5950,  // Lv.15
	6750,  // Lv.16
	7600,  // Lv.17
	8500,  // Lv.18
	9450,  // Lv.19
	10450, // Lv.20
}

// LevelInfo 由总经验值派生的等级信息，不做持久化，每次按需重新计算
type LevelInfo struct {
	Level                int     `json:"level"`
	CurrentXP            int     `json:"currentXp"`
	XPForCurrentLevel    int     `json:"xpForCurrentLevel"`
	XPForNextLevel       int     `json:"xpForNextLevel"`
	XPNeededForNextLevel int     `json:"xpNeededForNextLevel"`
	ProgressPercent      float64 `json:"progressPercent"`
}

// LevelInfoFor 根据总经验值计算等级信息。纯函数，负数输入按0处理
func LevelInfoFor(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	for i := MaxLevel - 1; i >= 0; i-- {
		if totalXP >= levelThresholds[i] {
			level = i + 1
			break
		}
	}

	if level >= MaxLevel {
		top := levelThresholds[MaxLevel-1]
		return LevelInfo{
			Level:                MaxLevel,
			CurrentXP:            totalXP,
			XPForCurrentLevel:    top,
			XPForNextLevel:       top,
			XPNeededForNextLevel: 0,
			ProgressPercent:      100,
		}
	}

	cur := levelThresholds[level-1]
	next := levelThresholds[level]

	return LevelInfo{
		Level:                level,
		CurrentXP:            totalXP,
		XPForCurrentLevel:    cur,
		XPForNextLevel:       next,
		XPNeededForNextLevel: next - totalXP,
		ProgressPercent:      100 * float64(totalXP-cur) / float64(next-cur),
	}
}
