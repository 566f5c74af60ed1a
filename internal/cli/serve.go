package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"quizdom/internal/app"
	"quizdom/internal/config"
	"quizdom/internal/infra/memory"
	redisstore "quizdom/internal/infra/redis"
	transport "quizdom/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that serves the websocket UI bridge.
func NewServeCmd(opts *rootOptions) *cobra.Command {
	envPort := os.Getenv("PORT")
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quiz sessions to a browser UI over websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", envPort, "port to listen on")
	return cmd
}

func runServer(ctx context.Context, opts *rootOptions, portFlag string) error {
	d, err := buildDeps(ctx, opts)
	if err != nil {
		return err
	}
	defer d.Close()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = d.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var registry app.SessionRegistry
	if d.redis != nil {
		registry = redisstore.NewSessionRegistry(d.redis, config.TTLDuration(d.cfg.Store.Redis.TTL, 10*time.Minute), d.cfg.Store.Redis.Prefix)
	} else {
		registry = memory.NewSessionRegistry()
	}

	wsHandler := transport.NewWSHandler(func(r app.Renderer) *app.QuizSession {
		return d.newSession(r, app.NewPlayerStore(d.kv, nil))
	}, registry)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(wsHandler, registry),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizdom bridge on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	registry.CloseAll(shutdownCtx)
	return err
}
