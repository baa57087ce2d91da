package controller

import (
	"github.com/gin-gonic/gin"

	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
)

type MotivationController struct {
	MotivationService *service.MotivationService
}

func NewMotivationController(motivationService *service.MotivationService) *MotivationController {
	return &MotivationController{MotivationService: motivationService}
}

// Current godoc
// @Summary 今日营销小贴士
// @Tags 小贴士
// @Produce  json
// @Success 200 {object} util.Response "当前小贴士"
// @Router /api/motivation [get]
func (c *MotivationController) Current(ctx *gin.Context) {
	tip, err := c.MotivationService.Current()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"tip": tip})
}

// List godoc
// @Summary 全部小贴士
// @Description 仅管理员可用
// @Tags 小贴士
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Motivation} "小贴士列表"
// @Router /api/admin/motivations [get]
func (c *MotivationController) List(ctx *gin.Context) {
	motivations, err := c.MotivationService.GetAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, motivations)
}

// MotivationRequest 小贴士创建/更新请求
type MotivationRequest struct {
	Content   string `json:"content" binding:"required"`
	IsEnabled bool   `json:"is_enabled"`
}

// Create godoc
// @Summary 创建小贴士
// @Description 仅管理员可用
// @Tags 小贴士
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MotivationRequest true "小贴士内容"
// @Success 201 {object} util.Response "创建成功"
// @Router /api/admin/motivations [post]
func (c *MotivationController) Create(ctx *gin.Context) {
	var req MotivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MotivationService.Create(req.Content); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, nil)
}

// Update godoc
// @Summary 更新小贴士
// @Description 仅管理员可用
// @Tags 小贴士
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小贴士ID"
// @Param   body body MotivationRequest true "小贴士内容"
// @Success 200 {object} util.Response "更新成功"
// @Router /api/admin/motivations/{id} [put]
func (c *MotivationController) Update(ctx *gin.Context) {
	var req MotivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MotivationService.Update(util.MustParseUint(ctx.Param("id")), req.Content, req.IsEnabled); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除小贴士
// @Description 仅管理员可用
// @Tags 小贴士
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "小贴士ID"
// @Success 200 {object} util.Response "删除成功"
// @Router /api/admin/motivations/{id} [delete]
func (c *MotivationController) Delete(ctx *gin.Context) {
	if err := c.MotivationService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, nil)
}
