package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/logger"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/storage"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Job         *JobHandler
	Application *ApplicationHandler
	SavedJob    *SavedJobHandler
	Admin       *AdminHandler
}

func NewRouter(cfg *config.Config, log *zap.Logger, tokens *auth.TokenManager, limiter *middleware.RateLimiter, h *Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.GinLogger(log), logger.GinRecovery(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.MaxMultipartMemory = cfg.MaxUploadSize

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.HealthCheck)
	r.Static("/"+storage.PublicPrefix, cfg.UploadDir)

	requireAuth := middleware.RequireAuth(tokens)
	jobSeeker := middleware.RequireRole(models.RoleJobSeeker)
	recruiter := middleware.RequireRole(models.RoleRecruiter)
	admin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health.HealthCheck)

		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", limiter.GinMiddleware(), h.Auth.Login)
		authRoutes.GET("/me", requireAuth, h.Auth.Me)

		profile := api.Group("/profile")
		profile.GET("/:userId", h.Profile.GetByUser)
		self := profile.Group("", requireAuth)
		self.GET("", h.Profile.GetMine)
		self.PUT("/basic", h.Profile.UpdateBasic)
		self.PUT("/about", h.Profile.UpdateAbout)
		self.PUT("/skills", h.Profile.UpdateSkills)
		self.POST("/experience", h.Profile.AddExperience)
		self.PUT("/experience/:id", h.Profile.UpdateExperience)
		self.DELETE("/experience/:id", h.Profile.DeleteExperience)
		self.POST("/education", h.Profile.AddEducation)
		self.PUT("/education/:id", h.Profile.UpdateEducation)
		self.DELETE("/education/:id", h.Profile.DeleteEducation)
		self.POST("/resume", h.Profile.UploadResume)
		self.DELETE("/resume", h.Profile.DeleteResume)
		self.POST("/avatar", h.Profile.UploadAvatar)
		self.DELETE("/avatar", h.Profile.DeleteAvatar)

		jobs := api.Group("/jobs")
		jobs.GET("", h.Job.ListJobs)
		jobs.GET("/my-jobs", requireAuth, recruiter, h.Job.MyJobs)
		jobs.GET("/:id", h.Job.GetJob)
		jobs.POST("", requireAuth, recruiter, h.Job.CreateJob)
		jobs.PUT("/:id", requireAuth, recruiter, h.Job.UpdateJob)
		jobs.DELETE("/:id", requireAuth, middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin), h.Job.DeleteJob)
		jobs.GET("/:id/applicants", requireAuth, recruiter, h.Job.Applicants)

		apps := api.Group("/applications", requireAuth)
		apps.POST("/job/:jobId", jobSeeker, h.Application.Apply)
		apps.GET("/my-applications", jobSeeker, h.Application.MyApplications)
		apps.GET("/:id", h.Application.GetApplication)
		apps.PATCH("/:id/status", recruiter, h.Application.UpdateStatus)
		apps.DELETE("/:id", jobSeeker, h.Application.Withdraw)

		saved := api.Group("/saved-jobs", requireAuth, jobSeeker)
		saved.GET("", h.SavedJob.List)
		saved.POST("/:jobId", h.SavedJob.Save)
		saved.DELETE("/:jobId", h.SavedJob.Remove)
		saved.GET("/check/:jobId", h.SavedJob.Check)

		adminRoutes := api.Group("/admin", requireAuth, admin)
		adminRoutes.GET("/stats", h.Admin.Stats)
		adminRoutes.GET("/users", h.Admin.Users)
		adminRoutes.PATCH("/users/:id/role", h.Admin.UpdateUserRole)
		adminRoutes.DELETE("/users/:id", h.Admin.DeleteUser)
		adminRoutes.GET("/jobs", h.Admin.Jobs)
		adminRoutes.DELETE("/jobs/:id", h.Admin.DeleteJob)
		adminRoutes.GET("/applications", h.Admin.Applications)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"code":  apperrors.ErrTypeNotFound,
		})
	})

	return r
}
