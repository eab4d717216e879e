package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"postboard/app/models"
	"postboard/app/repositories"
	"postboard/app/repositories/mock"
	"postboard/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPostController(t *testing.T) (*PostController, *mock.Store) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	store := mock.NewStore()
	postService := services.NewPostService(repositories.NewPostRepository(store), nil)
	return NewPostController(postService), store
}

func setupRouter(controller *PostController) *mux.Router {
	router := mux.NewRouter()

	// Register routes manually; the routes package adds CORS and middleware on top.
	router.HandleFunc("/", controller.Root).Methods("GET")
	router.HandleFunc("/posts", controller.Index).Methods("GET")
	router.HandleFunc("/posts", controller.Create).Methods("POST")
	router.HandleFunc("/posts", controller.Preflight).Methods("OPTIONS")
	router.NotFoundHandler = http.HandlerFunc(controller.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(controller.NotFound)

	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostController(t *testing.T) {
	controller, store := setupTestPostController(t)
	router := setupRouter(controller)

	t.Run("root greeting", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, RootGreeting, w.Body.String())
	})

	t.Run("list empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json;charset=UTF-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("create post", func(t *testing.T) {
		w := postJSON(router, `{"title":"Test Post","username":"alice","content":"Hello"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "success", w.Body.String())
	})

	t.Run("list posts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var posts []models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		require.Len(t, posts, 1)
		assert.Equal(t, models.Post{Username: "alice", Title: "Test Post", Content: "Hello"}, posts[0])
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "I only understand JSON.", w.Body.String())
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name    string
			payload string
			message string
		}{
			{"invalid json", `{"title": `, "Invalid JSON!"},
			{"missing attributes", `{"username":"u"}`, "Missing attribute(s): title, content"},
			{"empty username", `{"username":"","title":"x","content":"y"}`, "Empty title, username, or content."},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := postJSON(router, tt.payload)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tt.message, w.Body.String())
				assert.Equal(t, "text/plain;charset=UTF-8", w.Header().Get("Content-Type"))
			})
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		w := postJSON(router, `{"title":"`+strings.Repeat("a", maxBodyBytes)+`","username":"u","content":"c"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid JSON!", w.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "POST, GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("not found", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/nonexistent"},
			{http.MethodDelete, "/posts"},
			{http.MethodPost, "/"},
		} {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.path)
			assert.Equal(t, "404, not found!", w.Body.String())
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		store.Err = errors.New("store down")
		defer func() { store.Err = nil }()

		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		w = postJSON(router, `{"title":"t","username":"u","content":"c"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", w.Body.String())
	})
}
