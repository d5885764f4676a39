package routes

import (
	"biblioruche/hive/internal/api"
	"biblioruche/hive/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	sessionSvc := deps.Services.Session

	// Twitch OAuth flow
	r.Get("/auth/login", handlers.LoginHandler())
	r.Get("/auth/callback", handlers.CallbackHandler())
	r.Post("/auth/logout", handlers.LogoutHandler())

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {

		// Public group: anonymous works, but claims enrich the response
		// (vote results visibility, own registration flags).
		v1.Group(func(public chi.Router) {
			public.Use(middleware.OptionalAuthMiddleware(sessionSvc))

			public.Get("/stats", handlers.SiteStatsHandler())

			public.Get("/books/search", handlers.SearchBooksHandler())
			public.Get("/books/autocomplete", handlers.AutocompleteBooksHandler())
			public.Get("/books/isbn/{isbn}", handlers.GetBookByISBNHandler())

			public.Get("/proposals", handlers.ListProposalsHandler())
			public.Get("/proposals/{proposal_id}", handlers.GetProposalHandler())
			public.Get("/proposals/{proposal_id}/reviews", handlers.ListReviewsHandler())

			public.Get("/votes", handlers.ListVotingSessionsHandler())
			public.Get("/votes/{session_id}", handlers.GetVotingSessionHandler())

			public.Get("/sessions", handlers.ListClubSessionsHandler())
			public.Get("/sessions/{session_id}", handlers.GetClubSessionHandler())

			public.Get("/badges", handlers.ListBadgesHandler())
			public.Get("/users/{user_id}", handlers.GetUserProfileHandler())
			public.Get("/users/{user_id}/badges", handlers.GetUserBadgesHandler())
			public.Get("/users/{user_id}/reviews", handlers.GetUserReviewsHandler())

			public.Get("/ebooks", handlers.ListEbooksHandler())
		})

		// Presigned link redemption carries its own token, no session needed.
		v1.Get("/ebooks/download", handlers.DownloadEbookHandler())
		v1.Get("/ebooks/{ebook_id}/cover", handlers.GetEbookCoverHandler())

		// Authenticated members group
		v1.Group(func(member chi.Router) {
			member.Use(middleware.AuthMiddleware(sessionSvc))

			member.Get("/me", handlers.MeHandler())

			member.Post("/proposals", handlers.SubmitProposalHandler())
			member.Put("/proposals/{proposal_id}", handlers.EditProposalHandler())
			member.Post("/proposals/{proposal_id}/reviews", handlers.SubmitReviewHandler())

			member.Post("/votes/{session_id}/ballots", handlers.SubmitBallotHandler())

			member.Post("/sessions/{session_id}/register", handlers.RegisterParticipationHandler())
			member.Delete("/sessions/{session_id}/register", handlers.UnregisterParticipationHandler())

			member.Get("/notifications", handlers.ListNotificationsHandler())
			member.Post("/notifications/{notification_id}/read", handlers.MarkNotificationReadHandler())
			member.Post("/notifications/read-all", handlers.MarkAllNotificationsReadHandler())

			member.Post("/ebooks/{ebook_id}/download-link", handlers.PresignEbookDownloadHandler())

			// Admin-only group (member + admin flag)
			member.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Post("/votes", handlers.CreateVotingSessionHandler())
				admin.Put("/votes/{session_id}", handlers.EditVotingSessionHandler())
				admin.Post("/votes/{session_id}/close", handlers.CloseVotingSessionHandler())

				admin.Post("/sessions", handlers.CreateClubSessionHandler())
				admin.Put("/sessions/{session_id}", handlers.EditClubSessionHandler())
				admin.Post("/sessions/{session_id}/start", handlers.StartClubSessionHandler())
				admin.Post("/sessions/{session_id}/complete", handlers.CompleteClubSessionHandler())
				admin.Post("/sessions/{session_id}/archive", handlers.ArchiveClubSessionHandler())
				admin.Delete("/sessions/{session_id}", handlers.DeleteClubSessionHandler())
				admin.Post("/sessions/refresh-statuses", handlers.RefreshSessionStatusesHandler())

				admin.Post("/admin/proposals/{proposal_id}/approve", handlers.ModerateProposalHandler(true))
				admin.Post("/admin/proposals/{proposal_id}/reject", handlers.ModerateProposalHandler(false))
				admin.Post("/admin/proposals/bulk", handlers.BulkModerateProposalsHandler())
				admin.Put("/admin/reviews/{review_id}", handlers.ModerateReviewHandler())

				admin.Get("/admin/users", handlers.ListUsersHandler())
				admin.Put("/admin/users/{user_id}/admin", handlers.SetAdminHandler())

				admin.Post("/admin/ebooks", handlers.UploadEbookHandler())
				admin.Put("/admin/ebooks/{ebook_id}/visibility", handlers.SetEbookVisibilityHandler())
				admin.Delete("/admin/ebooks/{ebook_id}", handlers.DeleteEbookHandler())

				admin.Post("/admin/cleanup", handlers.RunCleanupHandler())
				admin.Post("/admin/badges/seed", handlers.SeedBadgesHandler())
				admin.Get("/admin/queue", handlers.QueueStatusHandler())
			})
		})
	})
}
