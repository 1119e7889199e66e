package api

import (
	"net/http"
	"time"

	"lenspost/internal/api/handler"
	"lenspost/internal/app/service"
	"lenspost/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	issuer *security.TokenIssuer,
	authService *service.AuthService,
	postService *service.PostService,
	commentService *service.CommentService,
	userService *service.UserService,
	categoryService *service.CategoryService,
	mediaDir string,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Decodes a bearer token into context claims when present; routes
	// that require identity add middleware.Authenticator on top.
	r.Use(jwtauth.Verifier(issuer.JWTAuth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Uploaded media is served straight from the media dir.
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(mediaDir))))

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		postHandler := handler.NewPostHandler(postService)
		v1.Route("/posts", postHandler.RegisterRoutes)

		commentHandler := handler.NewCommentHandler(commentService)
		v1.Route("/comments", commentHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		categoryHandler := handler.NewCategoryHandler(categoryService)
		v1.Route("/categories", categoryHandler.RegisterRoutes)
	})

	return r
}
