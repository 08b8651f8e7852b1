package router

import (
	"fmt"
	"sort"

	"github.com/zyntratech-upendra/placements/src/core/middleware"
	"github.com/zyntratech-upendra/placements/src/core/models"
	"github.com/zyntratech-upendra/placements/src/modules/assessments"
	"github.com/zyntratech-upendra/placements/src/modules/attempts"
	"github.com/zyntratech-upendra/placements/src/modules/authentication"
	"github.com/zyntratech-upendra/placements/src/modules/files"
	"github.com/zyntratech-upendra/placements/src/modules/folders"
	"github.com/zyntratech-upendra/placements/src/modules/interviews"
	"github.com/zyntratech-upendra/placements/src/modules/jobs"
	"github.com/zyntratech-upendra/placements/src/modules/questions"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
)

func InitialiseAndSetupRoutes(app *fiber.App) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	apiV1 := root.Group("/api/v1")
	setupAPIV1Routes(apiV1)

	root.Get("/ws/attempts/:assessmentId", attempts.LiveFeedUpgrade, websocket.New(attempts.LiveFeedSocket))

	routes := app.GetRoutes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	for _, route := range routes {
		fmt.Printf("%s\t%s\n", route.Method, route.Path)
	}
}

func setupAPIV1Routes(router fiber.Router) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminOrMentor := middleware.RequireRoles(models.RoleAdmin, models.RoleMentor)
	studentOnly := middleware.RequireRoles(models.RoleStudent)

	// Grouped API endpoints
	authGroup := router.Group("/auth")
	folderGroup := router.Group("/folders")
	fileGroup := router.Group("/files")
	questionGroup := router.Group("/questions")
	assessmentGroup := router.Group("/assessments")
	attemptGroup := router.Group("/attempts")
	jobGroup := router.Group("/jobs")
	interviewGroup := router.Group("/interviews")

	// Authentication routes
	authGroup.Post("/signin", authentication.SignIn)
	authGroup.Post("/register", middleware.Protected(), adminOnly, authentication.Register)
	authGroup.Get("/me", middleware.Protected(), authentication.Me)
	authGroup.Get("/users", middleware.Protected(), adminOrMentor, authentication.ListUsers)

	// Folder routes
	folderGroup.Post("/", middleware.Protected(), adminOnly, folders.CreateFolder)
	folderGroup.Get("/", middleware.Protected(), folders.GetAllFolders)
	folderGroup.Get("/:id", middleware.Protected(), folders.GetFolderByID)
	folderGroup.Put("/:id", middleware.Protected(), adminOnly, folders.UpdateFolder)
	folderGroup.Delete("/:id", middleware.Protected(), adminOnly, folders.DeleteFolder)

	// File routes
	fileGroup.Post("/upload", middleware.Protected(), adminOnly, files.UploadFile)
	fileGroup.Get("/", middleware.Protected(), files.GetAllFiles)
	fileGroup.Get("/folder/:folderId", middleware.Protected(), files.GetFilesByFolder)
	fileGroup.Delete("/:id", middleware.Protected(), adminOnly, files.DeleteFile)
	fileGroup.Post("/:id/ocr", middleware.Protected(), adminOnly, files.ProcessOCR)

	// Question routes
	questionGroup.Get("/folder/:folderId", middleware.Protected(), questions.GetQuestionsByFolder)
	questionGroup.Get("/:id", middleware.Protected(), questions.GetQuestionByID)

	// Assessment routes
	assessmentGroup.Post("/", middleware.Protected(), adminOrMentor, assessments.CreateAssessment)
	assessmentGroup.Get("/", middleware.Protected(), assessments.GetAllAssessments)
	assessmentGroup.Post("/random", middleware.Protected(), assessments.GenerateRandomAssessment)
	assessmentGroup.Get("/:id", middleware.Protected(), assessments.GetAssessmentByID)
	assessmentGroup.Put("/:id", middleware.Protected(), adminOrMentor, assessments.UpdateAssessment)
	assessmentGroup.Delete("/:id", middleware.Protected(), adminOrMentor, assessments.DeleteAssessment)

	// Attempt routes
	attemptGroup.Post("/start", middleware.Protected(), studentOnly, attempts.StartAttempt)
	attemptGroup.Post("/answer", middleware.Protected(), studentOnly, attempts.SubmitAnswer)
	attemptGroup.Post("/submit", middleware.Protected(), studentOnly, attempts.SubmitAttempt)
	attemptGroup.Get("/my-attempts", middleware.Protected(), studentOnly, attempts.GetMyAttempts)
	attemptGroup.Get("/all", middleware.Protected(), adminOrMentor, attempts.GetAllAttempts)
	attemptGroup.Get("/assessment/:assessmentId", middleware.Protected(), adminOrMentor, attempts.GetAttemptsByAssessment)
	attemptGroup.Get("/:id", middleware.Protected(), attempts.GetAttemptByID)

	// Job routes
	jobGroup.Post("/", middleware.Protected(), adminOrMentor, jobs.CreateJob)
	jobGroup.Get("/", middleware.Protected(), jobs.GetAllJobs)
	jobGroup.Get("/:id", middleware.Protected(), jobs.GetJobByID)
	jobGroup.Put("/:id", middleware.Protected(), adminOrMentor, jobs.UpdateJob)
	jobGroup.Delete("/:id", middleware.Protected(), adminOrMentor, jobs.DeleteJob)

	// Interview routes
	interviewGroup.Post("/create-session", middleware.Protected(), studentOnly, interviews.CreateSession)
	interviewGroup.Post("/:id/answer", middleware.Protected(), studentOnly, interviews.UploadAnswer)
	interviewGroup.Post("/:id/complete", middleware.Protected(), studentOnly, interviews.CompleteSession)
	interviewGroup.Get("/my", middleware.Protected(), studentOnly, interviews.GetMySessions)
	interviewGroup.Get("/:id", middleware.Protected(), interviews.GetSession)
}
