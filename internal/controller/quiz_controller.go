package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"marketing_edu_backend/internal/progression"
	"marketing_edu_backend/internal/service"
	"marketing_edu_backend/internal/util"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Submit godoc
// @Summary 提交测验成绩
// @Description 结算测验：发放经验、更新分析数据并冲击排行榜
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QuizSubmission true "测验成绩单"
// @Success 200 {object} util.Response{data=service.QuizResult} "结算结果"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quizzes/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var sub service.QuizSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if sub.Correct > sub.Questions {
		util.BadRequest(ctx, "答对题数不能超过总题数")
		return
	}

	result, err := c.QuizService.Submit(claims.UserID, sub)
	if err != nil {
		if errors.Is(err, progression.ErrInvalidQuizRecord) ||
			errors.Is(err, progression.ErrInvalidEntry) ||
			errors.Is(err, progression.ErrEmptyConcept) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Leaderboard godoc
// @Summary 概念排行榜
// @Description 返回某概念按准确率排序的前十成绩
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   concept path string true "概念ID"
// @Success 200 {object} util.Response{data=[]progression.LeaderboardEntry} "排行榜"
// @Router /api/quizzes/{concept}/leaderboard [get]
func (c *QuizController) Leaderboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.QuizService.Leaderboard(claims.UserID, ctx.Param("concept")))
}

// Analytics godoc
// @Summary 概念测验分析
// @Description 返回某概念的聚合测验统计
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   concept path string true "概念ID"
// @Success 200 {object} util.Response{data=progression.TopicAnalytics} "分析数据"
// @Failure 404 {object} util.Response "暂无数据"
// @Router /api/quizzes/{concept}/analytics [get]
func (c *QuizController) Analytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, ok := c.QuizService.Analytics(claims.UserID, ctx.Param("concept"))
	if !ok {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, stats)
}
