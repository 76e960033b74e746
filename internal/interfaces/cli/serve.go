package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wyg1997/CommandAPI/config"
	"github.com/wyg1997/CommandAPI/internal/interfaces/http/handler"
	"github.com/wyg1997/CommandAPI/internal/usecase"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// serve runs the API until ctx is canceled, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.GetLogger()
	log.Info("Starting Command API...")

	repo, closer, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closer.Close()

	commandUseCase := usecase.NewCommandUseCase(repo, newNotifier(&cfg.Feishu))
	commandHandler := handler.NewCommandHandler(commandUseCase)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.NewRouter(commandHandler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting on port %s (storage=%s)", cfg.Server.Port, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown: %v", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
