package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/consistency/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Board   *apiHandler.BoardHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Every route below needs an identity provider token.
	r.POST("/api/v1/auth/login", authMiddleware(handlers.Auth.Login))
	r.POST("/api/v1/auth/refresh", authMiddleware(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	r.GET("/api/v1/me", authMiddleware(handlers.Profile.Me))

	r.GET("/api/v1/board", authMiddleware(handlers.Board.Get))
	r.POST("/api/v1/board/refresh", authMiddleware(handlers.Board.Refresh))
	r.POST("/api/v1/goals", authMiddleware(handlers.Board.AddGoal))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Board.AddTask))
	r.GET("/api/v1/categories", authMiddleware(handlers.Board.Categories))
	r.POST("/api/v1/items/{kind}/{id}/{action}", authMiddleware(handlers.Board.ItemAction))
	r.GET("/api/v1/notifications", authMiddleware(handlers.Board.Notifications))

	return r
}
