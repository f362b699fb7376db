package app

import (
	"carevo_backend/docs"
	"carevo_backend/internal/config"
	"carevo_backend/internal/middleware"
	"carevo_backend/internal/model"
	"carevo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/careers", c.career.Create)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)
	group.PUT("/onboarding", c.user.Onboard)

	careers := group.Group("/careers")
	{
		careers.GET("", c.career.List)
		careers.GET("/:id", c.career.Get)
	}

	quizzes := group.Group("/quizzes")
	{
		quizzes.POST("", c.quiz.Generate)
		quizzes.GET("", c.quiz.List)
		quizzes.POST("/:id/submit", c.quiz.Submit)
	}

	roadmaps := group.Group("/roadmaps")
	{
		roadmaps.POST("", c.roadmap.Generate)
		roadmaps.GET("", c.roadmap.Get)
	}
	group.POST("/tasks/:id/complete", c.roadmap.CompleteTask)

	gamification := group.Group("/gamification")
	{
		gamification.GET("", c.gamification.Profile)
		gamification.POST("/check-in", c.gamification.CheckIn)
		gamification.GET("/leaderboard", c.gamification.Leaderboard)
	}

	analytics := group.Group("/analytics")
	{
		analytics.GET("/overview", c.analytics.GetOverview)
		analytics.GET("/overview/export", c.analytics.ExportOverview)
	}
}
