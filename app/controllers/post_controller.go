package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"postboard/app/middleware"
	"postboard/app/services"
)

// Response bodies and headers shared by the post routes.
const (
	RootGreeting    = "Hello, world! This is the root page of the posts worker."
	NotFoundMessage = "404, not found!"
	CreatedMessage  = "success"

	PreflightMethods = "POST, GET, OPTIONS"
	PreflightHeaders = "Content-Type"
	PreflightMaxAge  = "86400"

	jsonContentType = "application/json;charset=UTF-8"
	textContentType = "text/plain;charset=UTF-8"
)

// maxBodyBytes caps the size of a submitted post.
const maxBodyBytes = 1 << 20

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Root serves the greeting at /
func (pc *PostController) Root(w http.ResponseWriter, r *http.Request) {
	pc.sendText(w, RootGreeting, http.StatusOK)
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		pc.sendServerError(w, r, err)
		return
	}

	data, err := json.Marshal(posts)
	if err != nil {
		pc.sendServerError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", jsonContentType)
	w.Write(data)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		body = nil
	}

	_, err = pc.postService.CreatePost(r.Context(), r.Header.Get("Content-Type"), body)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		pc.sendText(w, verr.Message, http.StatusBadRequest)
	case err != nil:
		pc.sendServerError(w, r, err)
	default:
		pc.sendText(w, CreatedMessage, http.StatusOK)
	}
}

// Preflight answers CORS preflight requests
func (pc *PostController) Preflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", PreflightMethods)
	h.Set("Access-Control-Allow-Headers", PreflightHeaders)
	h.Set("Access-Control-Max-Age", PreflightMaxAge)
	w.WriteHeader(http.StatusNoContent)
}

// NotFound handles every request no other route matched
func (pc *PostController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.sendText(w, NotFoundMessage, http.StatusNotFound)
}

// Helper methods for consistent response handling

func (pc *PostController) sendText(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(status)
	io.WriteString(w, message)
}

func (pc *PostController) sendServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] %s %s: %v", middleware.GetRequestID(r.Context()), r.Method, r.URL.Path, err)
	pc.sendText(w, "Internal Server Error", http.StatusInternalServerError)
}
