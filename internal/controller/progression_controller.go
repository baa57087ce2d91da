package controller

import (
	"github.com/gin-gonic/gin"

	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
)

type ProgressionController struct {
	ProgressionSvc *service.ProgressionService
}

func NewProgressionController(progressionSvc *service.ProgressionService) *ProgressionController {
	return &ProgressionController{ProgressionSvc: progressionSvc}
}

// Summary godoc
// @Summary 进度概览
// @Description 返回等级、实验进度、成就与最近活动
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Summary} "进度概览"
// @Router /api/progression/summary [get]
func (c *ProgressionController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.ProgressionSvc.Summarize(claims.UserID))
}

// Level godoc
// @Summary 当前等级
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=progression.LevelInfo} "等级信息"
// @Router /api/progression/level [get]
func (c *ProgressionController) Level(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.ProgressionSvc.StoreFor(claims.UserID).Level())
}

// Activities godoc
// @Summary 最近活动
// @Description 最近50条活动日志，最新的在最前
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]progression.Activity} "活动日志"
// @Router /api/progression/activities [get]
func (c *ProgressionController) Activities(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.ProgressionSvc.StoreFor(claims.UserID).Activities())
}

// AchievementView 成就定义加解锁状态
type AchievementView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
}

// Achievements godoc
// @Summary 成就列表
// @Description 返回全部成就定义及当前用户的解锁状态
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]AchievementView} "成就列表"
// @Router /api/progression/achievements [get]
func (c *ProgressionController) Achievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	unlocked := make(map[string]string)
	for _, a := range c.ProgressionSvc.StoreFor(claims.UserID).Achievements() {
		unlocked[a.ID] = a.UnlockedAt.Format(util.TimeFormat)
	}

	views := make([]AchievementView, 0, len(progression.Registry))
	for _, def := range progression.Registry {
		at, ok := unlocked[def.ID]
		views = append(views, AchievementView{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Unlocked:    ok,
			UnlockedAt:  at,
		})
	}

	util.Success(ctx, views)
}

// ThemeRequest 主题设置请求
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// SetTheme godoc
// @Summary 设置界面主题
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ThemeRequest true "主题"
// @Success 200 {object} util.Response "设置成功"
// @Failure 400 {object} util.Response "非法主题"
// @Router /api/progression/theme [put]
func (c *ProgressionController) SetTheme(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressionSvc.StoreFor(claims.UserID).SetTheme(req.Theme); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, nil)
}

// PersonaRequest 自定义画像请求
type PersonaRequest struct {
	Persona string `json:"persona" binding:"required"`
}

// AddPersona godoc
// @Summary 添加自定义用户画像
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body PersonaRequest true "画像描述"
// @Success 200 {object} util.Response "添加成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/progression/personas [post]
func (c *ProgressionController) AddPersona(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PersonaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressionSvc.StoreFor(claims.UserID).AddPersona(req.Persona); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, nil)
}
