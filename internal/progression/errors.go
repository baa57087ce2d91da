package progression

import "errors"

// 校验错误：操作边界上同步拒绝非法输入，状态保持不变
var (
	ErrInvalidXPAmount    = errors.New("xp amount must be a positive integer")
	ErrEmptyXPSource      = errors.New("xp source must not be empty")
	ErrUnknownModule      = errors.New("unknown lab module id")
	ErrEmptyConcept       = errors.New("concept must not be empty")
	ErrInvalidEntry       = errors.New("invalid leaderboard entry")
	ErrInvalidQuizRecord  = errors.New("invalid quiz record")
	ErrEmptyUserName      = errors.New("user name must not be empty")
	ErrInvalidTheme       = errors.New("theme must be light or dark")
	ErrEmptyPersona       = errors.New("persona must not be empty")
)
