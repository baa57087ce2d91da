package service

import (
	"go.uber.org/zap"

	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/pkg/logger"
)

// DashboardService 聚合首页需要的进度、推荐资源和每日小贴士
type DashboardService struct {
	ProgressionSvc *ProgressionService
	ContentSvc     *ContentService
	MotivationSvc  *MotivationService
	LabSvc         *LabService
}

func NewDashboardService(progressionSvc *ProgressionService, contentSvc *ContentService, motivationSvc *MotivationService, labSvc *LabService) *DashboardService {
	return &DashboardService{
		ProgressionSvc: progressionSvc,
		ContentSvc:     contentSvc,
		MotivationSvc:  motivationSvc,
		LabSvc:         labSvc,
	}
}

// LabStatus 仪表盘上的实验卡片
type LabStatus struct {
	LabInfo
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// Dashboard 首页聚合数据
type Dashboard struct {
	Summary   Summary          `json:"summary"`
	Labs      []LabStatus      `json:"labs"`
	NextLab   *LabInfo         `json:"nextLab,omitempty"`
	Resources []model.Resource `json:"resources"`
	DailyTip  string           `json:"dailyTip"`
}

// Build 组装用户的仪表盘。推荐资源和小贴士失败时降级为空，不阻断页面
func (s *DashboardService) Build(userID uint) Dashboard {
	summary := s.ProgressionSvc.Summarize(userID)

	labs := make([]LabStatus, 0, len(progression.AllLabs))
	var next *LabInfo
	for _, info := range s.LabSvc.Catalog() {
		status := LabStatus{LabInfo: info}
		if rec, ok := summary.Modules[info.ID]; ok {
			status.Progress = rec.Progress
			status.Completed = rec.Completed
		}
		if next == nil && !status.Completed {
			labInfo := info
			next = &labInfo
		}
		labs = append(labs, status)
	}

	resources, err := s.ContentSvc.Recommended(5)
	if err != nil {
		logger.Log.Warn("获取推荐资源失败", zap.Error(err))
		resources = []model.Resource{}
	}

	tip, err := s.MotivationSvc.Current()
	if err != nil {
		logger.Log.Warn("获取每日小贴士失败", zap.Error(err))
	}

	return Dashboard{
		Summary:   summary,
		Labs:      labs,
		NextLab:   next,
		Resources: resources,
		DailyTip:  tip,
	}
}
