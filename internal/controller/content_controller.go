package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// List godoc
// @Summary 课程资源列表
// @Description 可按实验室过滤
// @Tags 资源
// @Produce  json
// @Security BearerAuth
// @Param   lab query string false "实验室ID"
// @Success 200 {object} util.Response{data=[]model.Resource} "资源列表"
// @Router /api/resources [get]
func (c *ContentController) List(ctx *gin.Context) {
	resources, err := c.ContentService.List(ctx.Query("lab"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, resources)
}

// Get godoc
// @Summary 资源详情
// @Tags 资源
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "资源ID"
// @Success 200 {object} util.Response{data=model.Resource} "资源详情"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/resources/{id} [get]
func (c *ContentController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的资源ID")
		return
	}

	resource, err := c.ContentService.Get(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resource)
}

// Create godoc
// @Summary 创建课程资源
// @Description 仅管理员可用
// @Tags 资源
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateResourceInput true "资源信息"
// @Success 201 {object} util.Response{data=model.Resource} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/resources [post]
func (c *ContentController) Create(ctx *gin.Context) {
	var input service.CreateResourceInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resource, err := c.ContentService.Create(input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, resource)
}

// Update godoc
// @Summary 更新课程资源
// @Description 仅管理员可用
// @Tags 资源
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "资源ID"
// @Param   body body service.CreateResourceInput true "资源信息"
// @Success 200 {object} util.Response{data=model.Resource} "更新成功"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/admin/resources/{id} [put]
func (c *ContentController) Update(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的资源ID")
		return
	}

	var input service.CreateResourceInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resource, err := c.ContentService.Update(uint(id), input)
	if err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resource)
}

// Delete godoc
// @Summary 删除课程资源
// @Description 仅管理员可用
// @Tags 资源
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "资源ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/admin/resources/{id} [delete]
func (c *ContentController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的资源ID")
		return
	}

	if err := c.ContentService.Delete(uint(id)); err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadVideo godoc
// @Summary 上传教学视频
// @Description 仅管理员可用，自动探测时长并生成缩略图
// @Tags 资源
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "视频文件"
// @Param   title formData string true "标题"
// @Param   description formData string false "描述"
// @Param   lab formData string false "关联实验室ID"
// @Success 201 {object} util.Response{data=model.Resource} "上传成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/admin/resources/video [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少视频文件")
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "缺少标题")
		return
	}

	input := service.CreateResourceInput{
		Title:       title,
		Description: ctx.PostForm("description"),
		Type:        model.ResourceVideo,
		Lab:         ctx.PostForm("lab"),
	}

	resource, err := c.ContentService.UploadVideo(ctx.Request.Context(), file, input)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, resource)
}
