package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emskillz/instructpoint/internal/app/controllers"
	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/middleware"
	"github.com/emskillz/instructpoint/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	instructorController *controllers.InstructorController,
	courseController *controllers.CourseController,
	curriculumController *controllers.CurriculumController,
	chatController *controllers.ChatController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.CurrentUser())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/profile", authController.GetProfile)
		authenticated.PUT("/auth/profile", authController.UpdateProfile)

		// Instructor roster routes. Visibility and management checks live
		// in the service layer, role gates only cover admin-only actions.
		instructors := authenticated.Group("/instructors")
		{
			instructors.GET("", instructorController.ListInstructors)
			instructors.GET("/:id", instructorController.GetInstructor)
			instructors.PUT("/:id", instructorController.UpdateInstructor)
			instructors.DELETE("/:id", instructorController.DeleteInstructor)

			instructors.POST("/:id/certifications", instructorController.AddCertification)
			instructors.DELETE("/:id/certifications/:certId", instructorController.RemoveCertification)

			instructors.GET("/:id/documents", instructorController.ListDocuments)
			instructors.POST("/:id/documents", instructorController.UploadDocument)
			instructors.DELETE("/:id/documents/:docId", instructorController.DeleteDocument)

			instructorsCoordinatorProtected := instructors.Group("")
			instructorsCoordinatorProtected.Use(authMiddleware.RoleRequired(
				models.RoleAdmin,
				models.RoleTrainingCenterCoordinator,
				models.RoleTrainingSiteCoordinator,
			))
			{
				instructorsCoordinatorProtected.POST("", instructorController.CreateInstructor)
			}

			instructorsAdminProtected := instructors.Group("")
			instructorsAdminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				instructorsAdminProtected.PUT("/:id/approve", instructorController.ApproveInstructor)
			}
		}

		// Course routes
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.GET("/stats", courseController.GetStats)
			courses.GET("/:id", courseController.GetCourse)
			courses.POST("", courseController.CreateCourse)
			courses.POST("/bulk", courseController.BulkCreateCourses)
			courses.DELETE("/:id", courseController.DeleteCourse)
		}

		// Curriculum tree (read-only, visible to every authenticated user)
		authenticated.GET("/curriculum", curriculumController.GetTree)

		// Chat routes
		chat := authenticated.Group("/chat")
		{
			chat.GET("/messages", chatController.GetHistory)
			chat.POST("/messages", chatController.SendMessage)
		}
	}

	// Websocket endpoint. Browsers cannot set an Authorization header on
	// websocket upgrades, so JWTAuth also accepts a token query parameter.
	ws := router.Group("/ws")
	ws.Use(authMiddleware.JWTAuth(), authMiddleware.CurrentUser())
	{
		ws.GET("/chat", wsHandler.HandleConnection)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics (public)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger routes are set up in bootstrap.go already
}
