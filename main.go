package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"

	"inkwell/app/audit"
	"inkwell/app/controllers"
	"inkwell/app/repositories"
	"inkwell/app/routes"
	"inkwell/app/services"
	"inkwell/config"
	"inkwell/logging"
	"inkwell/store"
)

const cliVersion = "1.0.0"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = strings.ToLower(os.Args[1])
	}

	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("inkwell version %s\n", cliVersion)
	case "serve":
		serve()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: inkwell <command>
Commands:
  help       Display this help message.
  version    Show version information.
  serve      Run the blog API server (default).

Configuration is read from INKWELL_* environment variables; see config/.
`
	fmt.Println(helpText)
}

func serve() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)

	clock := clockwork.NewRealClock()
	manager := store.NewManager(cfg.Store, clock, logging.WithComponent(logger, "store"))

	// A failed startup connect is fatal: the retry budget has already been
	// spent inside Connect.
	if err := manager.Connect(context.Background()); err != nil {
		logger.Error("store connection failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = manager.Disconnect() }()

	postRepo := repositories.NewBadgerPostRepository(manager)
	commentRepo := repositories.NewBadgerCommentRepository(manager)

	recorder := audit.NewSlogRecorder(logging.WithComponent(logger, "audit"))
	exists := services.NewExistenceCache()
	postService := services.NewPostService(postRepo, recorder, clock, exists,
		logging.WithComponent(logger, "posts"))
	commentService := services.NewCommentService(commentRepo, postRepo, recorder, clock, exists,
		logging.WithComponent(logger, "comments"))

	production := cfg.Server.IsProduction()
	router := routes.Setup(
		controllers.NewPostController(postService, logger, production),
		controllers.NewCommentController(commentService, logger, production),
		controllers.NewHealthController(manager, logger),
		logger,
		cfg.RateLimit,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logger.Info("server starting", "addr", srv.Addr, "env", cfg.Server.Env)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	if err := <-shutdownErr; err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
