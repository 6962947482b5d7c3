package routes

import (
	"log/slog"

	"github.com/gorilla/mux"

	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/config"
)

// Setup wires the API routes and global middleware onto a router.
func Setup(
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	healthController *controllers.HealthController,
	log *slog.Logger,
	rl config.RateLimitConfig,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RateLimit(rl))
	router.Use(middleware.Recoverer(log))

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", healthController.Show).Methods("GET")

	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id}", postController.Update).Methods("PUT")
	posts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")

	posts.HandleFunc("/{postId}/comments", commentController.Index).Methods("GET")
	posts.HandleFunc("/{postId}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id}", commentController.Show).Methods("GET")
	api.HandleFunc("/comments/{id}", commentController.Update).Methods("PUT")
	api.HandleFunc("/comments/{id}", commentController.Delete).Methods("DELETE")

	return router
}
