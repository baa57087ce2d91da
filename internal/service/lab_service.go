package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/internal/util"
	"marketing_edu_backend/pkg/logger"
	"marketing_edu_backend/pkg/monitoring"
)

// LabInfo 实验室目录条目
type LabInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

var labCatalog = map[string]LabInfo{
	progression.LabSegmentation: {
		ID:          progression.LabSegmentation,
		Title:       "市场细分实验室",
		Description: "按人口、地理、心理和行为变量划分市场，识别有价值的细分群体",
		Order:       1,
	},
	progression.LabTargeting: {
		ID:          progression.LabTargeting,
		Title:       "目标市场选择实验室",
		Description: "评估各细分市场的吸引力，选择目标市场并构建用户画像",
		Order:       2,
	},
	progression.LabPositioning: {
		ID:          progression.LabPositioning,
		Title:       "市场定位实验室",
		Description: "绘制感知定位图，撰写定位陈述，设计差异化策略",
		Order:       3,
	},
	progression.LabPricing: {
		ID:          progression.LabPricing,
		Title:       "定价实验室",
		Description: "比较成本导向、价值导向和竞争导向定价，模拟价格弹性",
		Order:       4,
	},
	progression.LabProductStrategy: {
		ID:          progression.LabProductStrategy,
		Title:       "产品策略实验室",
		Description: "规划产品组合与生命周期策略，设计产品线延伸方案",
		Order:       5,
	},
	progression.LabPromotion: {
		ID:          progression.LabPromotion,
		Title:       "促销实验室",
		Description: "制定整合营销传播方案，分配媒介预算并评估投放效果",
		Order:       6,
	},
}

type LabService struct {
	AI             *AIService
	ProgressionSvc *ProgressionService
	Redis          *redis.Client
}

func NewLabService(ai *AIService, progressionSvc *ProgressionService, rdb *redis.Client) *LabService {
	return &LabService{AI: ai, ProgressionSvc: progressionSvc, Redis: rdb}
}

// Catalog 按课程顺序返回全部实验室
func (s *LabService) Catalog() []LabInfo {
	labs := make([]LabInfo, 0, len(progression.AllLabs))
	for _, id := range progression.AllLabs {
		labs = append(labs, labCatalog[id])
	}
	return labs
}

// Get 返回单个实验室信息
func (s *LabService) Get(labID string) (LabInfo, error) {
	info, ok := labCatalog[labID]
	if !ok {
		return LabInfo{}, util.ErrLabNotFound
	}
	return info, nil
}

// Access 记录用户进入实验室
func (s *LabService) Access(userID uint, labID string) error {
	return s.ProgressionSvc.StoreFor(userID).UpdateModuleAccess(labID)
}

// Complete 标记实验完成并发放经验
func (s *LabService) Complete(userID uint, labID string) error {
	return s.ProgressionSvc.StoreFor(userID).CompleteModule(labID)
}

// SaveWorkspace 保存实验室工作区数据到黑板，后写覆盖先写
func (s *LabService) SaveWorkspace(userID uint, labID string, data json.RawMessage) error {
	return s.ProgressionSvc.StoreFor(userID).SaveLabData(labID, data)
}

// Workspace 读取实验室工作区数据
func (s *LabService) Workspace(userID uint, labID string) (json.RawMessage, error) {
	if _, ok := labCatalog[labID]; !ok {
		return nil, util.ErrLabNotFound
	}
	data, ok := s.ProgressionSvc.StoreFor(userID).LabData(labID)
	if !ok {
		return json.RawMessage("{}"), nil
	}
	return data, nil
}

// AnalyzeInput 提交给AI导师分析的实验方案
type AnalyzeInput struct {
	Submission json.RawMessage `json:"submission" binding:"required"`
	Question   string          `json:"question"`
}

// Analyze 将学生的实验方案交给AI导师点评
// 相同提交的分析结果在Redis中缓存，避免重复消耗模型额度
func (s *LabService) Analyze(ctx context.Context, userID uint, labID string, input AnalyzeInput) (string, error) {
	info, ok := labCatalog[labID]
	if !ok {
		return "", util.ErrLabNotFound
	}

	cacheKey := s.analysisCacheKey(labID, input)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			monitoring.AIRequestCounter.WithLabelValues(labID, "cache_hit").Inc()
			return cached, nil
		}
	}

	prompt := fmt.Sprintf("实验：%s（%s）\n\n学生提交的方案（JSON）：\n%s",
		info.Title, info.Description, string(input.Submission))
	if input.Question != "" {
		prompt += "\n\n学生的问题：" + input.Question
	}

	answer, err := s.AI.Chat(ctx, prompt, info.Description)
	if err != nil {
		monitoring.AIRequestCounter.WithLabelValues(labID, "error").Inc()
		return "", err
	}
	monitoring.AIRequestCounter.WithLabelValues(labID, "success").Inc()

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, cacheKey, answer, time.Hour).Err(); err != nil {
			logger.Log.Warn("缓存AI分析结果失败", zap.String("lab", labID), zap.Error(err))
		}
	}

	// 分析计入AI互动次数，提交内容写入黑板供后续实验复用
	store := s.ProgressionSvc.StoreFor(userID)
	if err := store.RecordAIInteraction(); err != nil {
		logger.Log.Warn("记录AI互动失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	if err := store.SaveLabData(labID, input.Submission); err != nil {
		logger.Log.Warn("保存实验黑板数据失败", zap.String("lab", labID), zap.Error(err))
	}

	return answer, nil
}

func (s *LabService) analysisCacheKey(labID string, input AnalyzeInput) string {
	h := sha256.New()
	h.Write([]byte(labID))
	h.Write(input.Submission)
	h.Write([]byte(input.Question))
	return "lab:analysis:" + hex.EncodeToString(h.Sum(nil))
}
