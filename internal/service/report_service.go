package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/internal/repository"
	"marketing_edu_backend/internal/util"
)

// ReportService 把学生的实验成果导出为Markdown报告并归档到对象存储
type ReportService struct {
	UserRepo       *repository.UserRepository
	ProgressionSvc *ProgressionService
	Storage        *StorageService
}

func NewReportService(userRepo *repository.UserRepository, progressionSvc *ProgressionService, storage *StorageService) *ReportService {
	return &ReportService{
		UserRepo:       userRepo,
		ProgressionSvc: progressionSvc,
		Storage:        storage,
	}
}

// ExportResult 报告导出结果
type ExportResult struct {
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Export 生成整套课程的学习报告并上传
// 要求至少完成一个实验，否则没有可报告的内容
func (s *ReportService) Export(ctx context.Context, userID uint) (*ExportResult, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	store := s.ProgressionSvc.StoreFor(userID)
	state := store.Snapshot()

	completed := 0
	for _, rec := range state.ModuleProgress {
		if rec.Completed {
			completed++
		}
	}
	if completed == 0 {
		return nil, util.ErrReportNotReady
	}

	now := time.Now()
	report := s.render(user, store, state, now)

	filename := fmt.Sprintf("reports/%d/marketing-report-%s.md", userID, now.Format("20060102-150405"))
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(report), int64(len(report)), "text/markdown")
	if err != nil {
		return nil, err
	}

	return &ExportResult{URL: url, GeneratedAt: now}, nil
}

func (s *ReportService) render(user *model.User, store *progression.Store, state *progression.State, now time.Time) []byte {
	var buf bytes.Buffer

	level := store.Level()

	fmt.Fprintf(&buf, "# 营销实验学习报告\n\n")
	fmt.Fprintf(&buf, "- 学员：%s\n", user.Name)
	fmt.Fprintf(&buf, "- 生成时间：%s\n", now.Format(util.TimeFormat))
	fmt.Fprintf(&buf, "- 等级：Lv.%d（%d XP）\n", level.Level, level.CurrentXP)
	fmt.Fprintf(&buf, "- 连续学习：%d 天，累计活跃 %d 天\n\n", state.Streak, state.DaysActive)

	fmt.Fprintf(&buf, "## 实验进度\n\n")
	for _, id := range progression.AllLabs {
		info := labCatalog[id]
		rec, ok := state.ModuleProgress[id]
		switch {
		case ok && rec.Completed:
			fmt.Fprintf(&buf, "- [x] %s（完成于 %s）\n", info.Title, rec.CompletedAt.Format(util.DateFormat))
		case ok:
			fmt.Fprintf(&buf, "- [ ] %s（进度 %d%%）\n", info.Title, rec.Progress)
		default:
			fmt.Fprintf(&buf, "- [ ] %s（未开始）\n", info.Title)
		}
	}

	fmt.Fprintf(&buf, "\n## 测验表现\n\n")
	fmt.Fprintf(&buf, "共完成 %d 次测验，其中满分 %d 次。\n\n", state.QuizzesCompleted, state.PerfectQuizzes)
	for _, id := range progression.AllLabs {
		stats, ok := state.Analytics[id]
		if !ok || stats.TotalQuizzes == 0 {
			continue
		}
		fmt.Fprintf(&buf, "- %s：%d 次测验，平均正确率 %.1f%%，最佳 %.1f%%\n",
			labCatalog[id].Title, stats.TotalQuizzes, stats.AverageAccuracy, stats.BestAccuracy)
	}

	achievements := store.Achievements()
	if len(achievements) > 0 {
		fmt.Fprintf(&buf, "\n## 已获成就\n\n")
		for _, a := range achievements {
			if def, ok := progression.AchievementByID(a.ID); ok {
				fmt.Fprintf(&buf, "- %s %s：%s\n", def.Icon, def.Title, def.Description)
			}
		}
	}

	fmt.Fprintf(&buf, "\n## 实验成果\n\n")
	for _, id := range progression.AllLabs {
		data, ok := state.LabData[id]
		if !ok {
			continue
		}
		pretty := data
		var indented bytes.Buffer
		if err := json.Indent(&indented, data, "", "  "); err == nil {
			pretty = indented.Bytes()
		}
		fmt.Fprintf(&buf, "### %s\n\n```json\n%s\n```\n\n", labCatalog[id].Title, pretty)
	}

	return buf.Bytes()
}
