package router

import (
	"go-auth-api/handler"
	"go-auth-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-auth-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, authService *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.HealthCheck)

	mux.Handle("/api/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("/api/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("/api/user/register", handler.ErrorHandlingMiddleware(userHandler.Register))

	// Session check runs through the bearer middleware so that the handler
	// only ever sees an already resolved principal.
	authRequired := handler.AuthMiddleware(authService)
	mux.Handle("/api/auth/check", authRequired(handler.ErrorHandlingMiddleware(authHandler.Check)))

	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}
