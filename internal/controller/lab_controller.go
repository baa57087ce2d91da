package controller

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
)

type LabController struct {
	LabService     *service.LabService
	AIService      *service.AIService
	ProgressionSvc *service.ProgressionService
}

func NewLabController(labService *service.LabService, aiService *service.AIService, progressionSvc *service.ProgressionService) *LabController {
	return &LabController{
		LabService:     labService,
		AIService:      aiService,
		ProgressionSvc: progressionSvc,
	}
}

// List godoc
// @Summary 实验室目录
// @Description 按课程顺序返回六个营销实验室
// @Tags 实验室
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LabInfo} "实验室列表"
// @Router /api/labs [get]
func (c *LabController) List(ctx *gin.Context) {
	util.Success(ctx, c.LabService.Catalog())
}

// Enter godoc
// @Summary 进入实验室
// @Description 记录访问时间，不发放经验
// @Tags 实验室
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "实验室ID"
// @Success 200 {object} util.Response{data=service.LabInfo} "实验室信息"
// @Failure 404 {object} util.Response "实验室不存在"
// @Router /api/labs/{id}/enter [post]
func (c *LabController) Enter(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	labID := ctx.Param("id")
	info, err := c.LabService.Get(labID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	if err := c.LabService.Access(claims.UserID, labID); err != nil {
		if errors.Is(err, progression.ErrUnknownModule) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, info)
}

// Complete godoc
// @Summary 完成实验
// @Description 标记实验完成并发放经验，重复完成不再加分
// @Tags 实验室
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "实验室ID"
// @Success 200 {object} util.Response{data=service.Summary} "最新进度"
// @Failure 404 {object} util.Response "实验室不存在"
// @Router /api/labs/{id}/complete [post]
func (c *LabController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	labID := ctx.Param("id")
	if err := c.LabService.Complete(claims.UserID, labID); err != nil {
		if errors.Is(err, progression.ErrUnknownModule) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, c.ProgressionSvc.Summarize(claims.UserID))
}

// Workspace godoc
// @Summary 读取实验工作区
// @Description 返回该实验室黑板上的最新数据
// @Tags 实验室
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "实验室ID"
// @Success 200 {object} util.Response "工作区数据"
// @Failure 404 {object} util.Response "实验室不存在"
// @Router /api/labs/{id}/workspace [get]
func (c *LabController) Workspace(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	data, err := c.LabService.Workspace(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, data)
}

// SaveWorkspace godoc
// @Summary 保存实验工作区
// @Description 整体覆盖该实验室黑板上的数据
// @Tags 实验室
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "实验室ID"
// @Param   body body object true "工作区数据"
// @Success 200 {object} util.Response "保存成功"
// @Failure 404 {object} util.Response "实验室不存在"
// @Router /api/labs/{id}/workspace [put]
func (c *LabController) SaveWorkspace(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil || !json.Valid(body) {
		util.BadRequest(ctx, "工作区数据必须是合法的JSON")
		return
	}

	if err := c.LabService.SaveWorkspace(claims.UserID, ctx.Param("id"), body); err != nil {
		if errors.Is(err, progression.ErrUnknownModule) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// Analyze godoc
// @Summary AI分析实验方案
// @Description 将学生提交的方案交给AI导师点评，计入AI互动次数
// @Tags 实验室
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "实验室ID"
// @Param   body body service.AnalyzeInput true "实验方案"
// @Success 200 {object} util.Response "AI点评"
// @Failure 404 {object} util.Response "实验室不存在"
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/labs/{id}/analyze [post]
func (c *LabController) Analyze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.AnalyzeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.LabService.Analyze(ctx.Request.Context(), claims.UserID, ctx.Param("id"), input)
	if err != nil {
		if errors.Is(err, util.ErrLabNotFound) {
			util.NotFound(ctx)
		} else {
			util.Error(ctx, 502, "AI服务暂时不可用")
		}
		return
	}

	util.Success(ctx, gin.H{"analysis": answer})
}

// ChatRequest AI导师对话请求
type ChatRequest struct {
	Prompt  string                  `json:"prompt" binding:"required"`
	History []service.AIChatMessage `json:"history"`
}

// Chat godoc
// @Summary AI导师流式对话
// @Description 以SSE流式返回AI导师的回答
// @Tags 实验室
// @Accept  json
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   id path string true "实验室ID"
// @Param   body body ChatRequest true "对话内容"
// @Success 200 {string} string "SSE流"
// @Failure 404 {object} util.Response "实验室不存在"
// @Router /api/labs/{id}/chat [post]
func (c *LabController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	info, err := c.LabService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	out, errChan := c.AIService.ChatStream(ctx.Request.Context(), req.Prompt, info.Description, req.History)

	// 对话计入AI互动次数
	c.ProgressionSvc.StoreFor(claims.UserID).RecordAIInteraction()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case chunk, ok := <-out:
			if !ok {
				ctx.SSEvent("done", "")
				return false
			}
			ctx.SSEvent("message", chunk)
			return true
		case err, ok := <-errChan:
			if ok && err != nil {
				ctx.SSEvent("error", err.Error())
			}
			return false
		}
	})
}
