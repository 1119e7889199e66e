package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lenspost/internal/api"
	"lenspost/internal/app/service"
	"lenspost/internal/common/security"
	"lenspost/internal/domain/repository"
	"lenspost/internal/platform/cache"
	"lenspost/internal/platform/config"
	"lenspost/internal/platform/database"
	"lenspost/internal/platform/storage"
)

func main() {
	cfg := config.Load()

	issuer := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	media, err := storage.NewDiskStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	userRepo := repository.NewPgUserRepository(db)
	postRepo := repository.NewPgPostRepository(db)
	commentRepo := repository.NewPgCommentRepository(db)
	categoryRepo := repository.NewPgCategoryRepository(db)
	likeRepo := repository.NewRedisLikeRepository(rdb)

	authService := service.NewAuthService(userRepo, issuer)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, media)
	commentService := service.NewCommentService(commentRepo, postRepo)
	userService := service.NewUserService(userRepo, postRepo, commentRepo, media, postService)
	categoryService := service.NewCategoryService(categoryRepo)

	router := api.NewRouter(issuer, authService, postService, commentService, userService, categoryService, media.Dir())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
