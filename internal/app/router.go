package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"marketing_edu_backend/docs"
	"marketing_edu_backend/internal/config"
	"marketing_edu_backend/internal/middleware"
	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/motivation", c.motivation.Current)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.PUT("/user/password", c.user.ChangePassword)

		authGroup.GET("/dashboard", c.dashboard.Dashboard)
		authGroup.POST("/dashboard/report", c.dashboard.ExportReport)

		progress := authGroup.Group("/progression")
		{
			progress.GET("/summary", c.progression.Summary)
			progress.GET("/level", c.progression.Level)
			progress.GET("/activities", c.progression.Activities)
			progress.GET("/achievements", c.progression.Achievements)
			progress.PUT("/theme", c.progression.SetTheme)
			progress.POST("/personas", c.progression.AddPersona)
		}

		labs := authGroup.Group("/labs")
		{
			labs.GET("", c.lab.List)
			labs.POST("/:id/enter", c.lab.Enter)
			labs.POST("/:id/complete", c.lab.Complete)
			labs.GET("/:id/workspace", c.lab.Workspace)
			labs.PUT("/:id/workspace", c.lab.SaveWorkspace)
			labs.POST("/:id/analyze", c.lab.Analyze)
			labs.POST("/:id/chat", c.lab.Chat)
		}

		quizzes := authGroup.Group("/quizzes")
		{
			quizzes.POST("/submit", c.quiz.Submit)
			quizzes.GET("/:concept/leaderboard", c.quiz.Leaderboard)
			quizzes.GET("/:concept/analytics", c.quiz.Analytics)
		}

		authGroup.GET("/resources", c.content.List)
		authGroup.GET("/resources/:id", c.content.Get)
	}

	// 管理员路由
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/resources", c.content.Create)
		adminGroup.PUT("/resources/:id", c.content.Update)
		adminGroup.DELETE("/resources/:id", c.content.Delete)
		adminGroup.POST("/resources/video", c.content.UploadVideo)

		adminGroup.GET("/motivations", c.motivation.List)
		adminGroup.POST("/motivations", c.motivation.Create)
		adminGroup.PUT("/motivations/:id", c.motivation.Update)
		adminGroup.DELETE("/motivations/:id", c.motivation.Delete)
	}
}
