package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	ReportService    *service.ReportService
}

func NewDashboardController(dashboardService *service.DashboardService, reportService *service.ReportService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
		ReportService:    reportService,
	}
}

// Dashboard godoc
// @Summary 学习仪表盘
// @Description 聚合进度概览、实验卡片、推荐资源和每日小贴士
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "仪表盘数据"
// @Router /api/dashboard [get]
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.DashboardService.Build(claims.UserID))
}

// ExportReport godoc
// @Summary 导出学习报告
// @Description 生成Markdown格式的学习报告并归档到存储
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ExportResult} "报告地址"
// @Failure 409 {object} util.Response "尚未完成任何实验"
// @Router /api/dashboard/report [post]
func (c *DashboardController) ExportReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ReportService.Export(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrReportNotReady) {
			util.Error(ctx, 409, "至少完成一个实验后才能导出报告")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
