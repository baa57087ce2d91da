package model

// ResourceType 课程资源类型
type ResourceType string

const (
	ResourceArticle ResourceType = "article"
	ResourceVideo   ResourceType = "video"
	ResourceCase    ResourceType = "case_study"
)

// Resource 营销课程资源，供实验室与仪表盘推荐使用
type Resource struct {
	BaseModel
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Type        ResourceType `gorm:"size:20;default:'article'" json:"type"`
	Lab         string       `gorm:"size:50;index" json:"lab"` // 关联的实验室ID，可为空
	URL         string       `gorm:"size:512" json:"url"`
	Thumbnail   string       `gorm:"size:512" json:"thumbnail"`
	Duration    int          `gorm:"default:0" json:"duration"` // 视频时长（秒）
}

func (Resource) TableName() string {
	return "resources"
}
