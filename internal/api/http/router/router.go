// Package router wires handlers and middleware into the HTTP routing table.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/studydeck/studydeck-server/internal/api/http/handler"
	"github.com/studydeck/studydeck-server/internal/api/http/middleware"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/service"
)

// Router assembles the HTTP surface from the auth, note, and ledger services.
type Router struct {
	authService   *service.Auth
	noteService   *service.Note
	ledgerService *service.Ledger
	logger        *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	noteService *service.Note,
	ledgerService *service.Ledger,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:   authService,
		noteService:   noteService,
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Register builds the gin engine with all routes and middleware attached.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	noteHandler := handler.NewNote(r.noteService, r.logger)
	ledgerHandler := handler.NewLedger(r.ledgerService, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle)

	api := engine.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/refresh-token", authHandler.RefreshToken)
		api.POST("/logout", authHandler.Logout)
		api.GET("/search-notes", noteHandler.Search)

		protected := api.Group("", authenticate.Handle)
		{
			protected.POST("/upload-note", noteHandler.Upload)
			protected.GET("/note/:id", noteHandler.Get)
			protected.PUT("/note/:id", noteHandler.Update)
			protected.DELETE("/note/:id", noteHandler.Delete)
			protected.POST("/comment-note", noteHandler.Comment)
			protected.GET("/my-notes", noteHandler.MyNotes)
			protected.GET("/my-purchases", noteHandler.MyPurchases)

			protected.POST("/purchase-note", ledgerHandler.Purchase)
			protected.POST("/withdraw", ledgerHandler.Withdraw)
			protected.GET("/withdrawals", ledgerHandler.Withdrawals)

			protected.GET("/profile", authHandler.Profile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}

	engine.GET("/uploads/:key", noteHandler.Download)

	return engine
}
