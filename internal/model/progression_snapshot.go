package model

// ProgressionSnapshot 每个用户一条，保存进度引擎的版本化状态快照
// 字段内容对数据库不透明，唯一的读写方是应用自身
type ProgressionSnapshot struct {
	BaseModel
	UserID  uint   `gorm:"uniqueIndex;type:bigint unsigned;not null"`
	Version int    `gorm:"default:1"`
	Data    []byte `gorm:"type:json"`
}

func (ProgressionSnapshot) TableName() string {
	return "progression_snapshots"
}
