package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-platform/internal/config"
	"github.com/ignatzorin/freelance-platform/internal/http/handlers"
	"github.com/ignatzorin/freelance-platform/internal/http/middleware"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	jobHandler *handlers.JobHandler,
	proposalHandler *handlers.ProposalHandler,
	contractHandler *handlers.ContractHandler,
	conversationHandler *handlers.ConversationHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", authHandler.DeleteSession)
		protectedAuth.DELETE("/sessions", authHandler.DeleteAllSessionsExcept)
	}

	// Публичные маршруты
	api.GET("/jobs", jobHandler.ListJobs)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.GetJob)
	api.GET("/skills", jobHandler.ListSkills)
	api.GET("/freelancers/:id/stats", middleware.UUIDValidator("id"), contractHandler.GetFreelancerStats)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/jobs", jobHandler.CreateJob)
		protected.GET("/jobs/my", jobHandler.ListMyJobs)
		protected.POST("/jobs/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.CreateProposal)
		protected.GET("/jobs/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.ListJobProposals)

		protected.POST("/freelancers/verification", authHandler.ToggleVerification)

		protected.GET("/proposals/my", proposalHandler.ListMyProposals)
		protected.POST("/proposals/preview", proposalHandler.PreviewProposal)
		protected.POST("/proposals/:id/approve", middleware.UUIDValidator("id"), proposalHandler.ApproveProposal)
		protected.POST("/proposals/:id/reject", middleware.UUIDValidator("id"), proposalHandler.RejectProposal)

		protected.GET("/contracts", contractHandler.ListContracts)
		protected.GET("/contracts/:id", middleware.UUIDValidator("id"), contractHandler.GetContract)
		protected.GET("/contracts/:id/payment", middleware.UUIDValidator("id"), contractHandler.GetContractPayment)
		protected.POST("/contracts/:id/complete", middleware.UUIDValidator("id"), contractHandler.CompleteContract)

		protected.GET("/payments", contractHandler.ListPayments)

		protected.GET("/conversations", conversationHandler.ListConversations)
		protected.GET("/conversations/:id/messages", middleware.UUIDValidator("id"), conversationHandler.ListMessages)
		protected.POST("/conversations/:id/messages", middleware.UUIDValidator("id"), conversationHandler.SendMessage)
	}

	return r
}
