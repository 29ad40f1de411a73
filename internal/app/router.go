package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"physics_edu_backend/docs"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/middleware"
	"physics_edu_backend/internal/model"
	"physics_edu_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
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

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.Profile)
	rg.POST("/user/role", c.user.ToggleRole)

	// 选择题测验
	quiz := rg.Group("/quiz")
	{
		quiz.GET("", c.quiz.Get)
		quiz.GET("/active", c.quiz.Active)
		quiz.GET("/summary", c.quiz.Summary)
		quiz.POST("/:id/answer", c.quiz.Answer)
		quiz.POST("/:id/skip", c.quiz.Skip)
		quiz.POST("/:id/questions/:questionId/focused-time", c.quiz.FocusedTime)
	}

	// 数值计算题测验
	complexQuiz := rg.Group("/complex-quiz")
	{
		complexQuiz.GET("", c.complexQuiz.Get)
		complexQuiz.POST("/:id/answer", c.complexQuiz.Answer)
		complexQuiz.POST("/:id/skip", c.complexQuiz.Skip)
	}

	// 学习主题
	subjects := rg.Group("/subjects")
	{
		subjects.GET("", c.subject.List)
		subjects.GET("/:subject", c.subject.Get)
		subjects.POST("/contents/:contentId/complete", c.subject.CompleteContent)
		subjects.POST("/contents/:contentId/focused-time", c.subject.FocusedTime)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/subjects", c.teacher.Subjects)
		teacher.GET("/subjects/:subject/questions", c.teacher.SubjectQuestions)
		teacher.GET("/students", c.teacher.Students)
		teacher.GET("/students/:id", c.teacher.StudentDetail)
		teacher.GET("/questions/analytics", c.teacher.QuestionAnalytics)

		// 题库维护
		teacher.POST("/questions/alternative", c.teacher.CreateAlternativeQuestion)
		teacher.GET("/questions/alternative/:id", c.teacher.GetAlternativeQuestion)
		teacher.PUT("/questions/alternative/:id", c.teacher.UpdateAlternativeQuestion)
		teacher.DELETE("/questions/alternative/:id", c.teacher.DeleteAlternativeQuestion)
		teacher.POST("/questions/complex", c.teacher.CreateComplexQuestion)
		teacher.GET("/questions/complex/:id", c.teacher.GetComplexQuestion)
		teacher.PUT("/questions/complex/:id", c.teacher.UpdateComplexQuestion)
		teacher.DELETE("/questions/complex/:id", c.teacher.DeleteComplexQuestion)

		teacher.POST("/diagrams", c.teacher.UploadDiagram)
	}
}
