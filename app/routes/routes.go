package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"postboard/app/controllers"
	"postboard/app/middleware"

	"github.com/gorilla/mux"
)

// ShutdownTimeout bounds how long in-flight requests get once the server is stopping.
const ShutdownTimeout = 10 * time.Second

// SetupRoutes defines the post routes. Every /posts response carries
// Access-Control-Allow-Origin: origin. Unmatched paths and methods get the
// controller's 404.
func SetupRoutes(postController *controllers.PostController, origin string) *mux.Router {
	router := mux.NewRouter()
	cors := middleware.CORS(origin)

	router.HandleFunc("/", postController.Root).Methods("GET")

	router.Handle("/posts", cors(http.HandlerFunc(postController.Index))).Methods("GET")
	router.Handle("/posts", cors(http.HandlerFunc(postController.Create))).Methods("POST")
	router.Handle("/posts", cors(http.HandlerFunc(postController.Preflight))).Methods("OPTIONS")

	// mux would answer a known path with the wrong method with 405.
	router.NotFoundHandler = http.HandlerFunc(postController.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(postController.NotFound)

	return router
}

// WithMiddleware wraps h in the global middleware. It wraps the router from the
// outside so that unmatched requests are logged too.
func WithMiddleware(h http.Handler) http.Handler {
	return middleware.RequestID(middleware.Logger(middleware.Recoverer(h)))
}

// StartServer serves srv until ctx is cancelled, then shuts it down gracefully.
// When srv.TLSConfig is set it serves HTTPS with the config's certificates.
func StartServer(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server on %s", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
