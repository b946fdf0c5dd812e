package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})

			// Payment gateway callbacks: raw body, signature-verified inside.
			public.POST("/payments/webhook", controllers.PaymentWebhook)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.POST("", controllers.CreateSubmission)
				submissions.PUT("/:id", controllers.UpdateSubmission)
				submissions.POST("/:id/resubmit", controllers.ResubmitSubmission)
				submissions.POST("/:id/proof-approval", controllers.ApproveProof)

				// Manuscript files
				submissions.POST("/:id/files", controllers.UploadManuscriptFile)

				// Reviewer assignment and the editor decision view
				submissions.POST("/:id/reviewers",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.InviteReviewer)
				submissions.GET("/:id/decision-view",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.GetDecisionView)

				// Editorial decisions
				submissions.POST("/:id/decision",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.DecideSubmission)
				submissions.POST("/:id/publish",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.PublishSubmission)
				submissions.POST("/:id/retract",
					middleware.RequireRole(models.RoleIDAdmin), controllers.RetractSubmission)

				// APC payments
				submissions.POST("/:id/payment-intent", controllers.CreatePaymentIntent)
				submissions.GET("/:id/payment-status", controllers.GetPaymentStatus)
			}

			// Files
			protected.GET("/files/:file_id/download", controllers.DownloadManuscriptFile)

			// Reviews (reviewer-facing; ownership enforced in the service)
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/assigned", controllers.GetAssignedReviews)
				reviews.POST("/:id/accept", controllers.AcceptReviewInvitation)
				reviews.POST("/:id/decline", controllers.DeclineReviewInvitation)
				reviews.POST("/:id/submit", controllers.SubmitReview)
			}

			// Payments
			payments := protected.Group("/payments")
			{
				payments.POST("/:id/confirm", controllers.ConfirmPayment)
				payments.POST("/:id/refund",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.RefundPayment)
			}

			// Issues
			issues := protected.Group("/issues")
			{
				issues.GET("", controllers.GetIssues)
				issues.GET("/:id", controllers.GetIssue)
				issues.POST("",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.CreateIssue)
				issues.POST("/:id/articles",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.AddIssueArticle)
				issues.POST("/:id/publish",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.PublishIssue)
				issues.POST("/:id/archive",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.ArchiveIssue)
			}

			// Complaints
			complaints := protected.Group("/complaints")
			{
				complaints.POST("", controllers.CreateComplaint)
				complaints.GET("", controllers.GetMyComplaints)
				complaints.PUT("/:id",
					middleware.RequireRole(models.RoleIDEditor, models.RoleIDAdmin), controllers.UpdateComplaintStatus)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleIDAdmin))
			{
				admin.GET("/users", controllers.AdminListUsers)
				admin.POST("/users", controllers.AdminCreateUser)
				admin.PUT("/users/:id", controllers.AdminUpdateUser)
				admin.DELETE("/users/:id", controllers.AdminDeleteUser)

				admin.GET("/submissions", controllers.AdminListSubmissions)
				admin.GET("/payments", controllers.AdminListPayments)
				admin.GET("/reviews", controllers.AdminListReviews)
				admin.GET("/complaints", controllers.AdminListComplaints)
			}
		}
	}
}
