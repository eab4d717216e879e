package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"postboard/app/captcha"
	"postboard/app/config"
	"postboard/app/controllers"
	"postboard/app/repositories"
	"postboard/app/routes"
	"postboard/app/services"

	"golang.org/x/sync/errgroup"
)

// RunAppServer starts the posts service and blocks until SIGINT or SIGTERM.
func RunAppServer(args []string) error {
	cfg, err := config.Load(args, os.Getenv)
	if err != nil {
		return err
	}
	if len(cfg.Args) > 0 {
		return fmt.Errorf("unexpected argument %q", cfg.Args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer store.Close()

	servers, err := newServers(cfg, newHandler(cfg, store))
	if err != nil {
		return err
	}

	log.Printf("Starting posts service on %s (store=%s, origin=%s, captcha=%t)",
		servers[0].Addr, cfg.Store, cfg.Origin, cfg.CaptchaEnabled())
	return serveAll(ctx, servers)
}

// serveAll runs every server until ctx is done or one of them fails, then shuts them
// all down.
func serveAll(ctx context.Context, servers []*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			if err := routes.StartServer(gctx, srv); err != nil {
				return fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// newHandler wires the store, captcha verifier and routes for cfg.
func newHandler(cfg *config.Config, store repositories.Store) http.Handler {
	var verifier captcha.Verifier
	if cfg.CaptchaEnabled() {
		verifier = captcha.NewRecaptchaVerifier(cfg.RecaptchaSecret, cfg.RecaptchaURL, cfg.CaptchaTimeout)
	}

	postService := services.NewPostService(repositories.NewPostRepository(store), verifier)
	router := routes.SetupRoutes(controllers.NewPostController(postService), cfg.Origin)
	return routes.WithMiddleware(router)
}
