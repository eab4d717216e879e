package services

import (
	"context"
	"log"
	"strings"

	"postboard/app/captcha"
	"postboard/app/models"
	"postboard/app/repositories"
)

// Rejection messages returned to clients as plain text.
const (
	MsgNotJSON        = "I only understand JSON."
	MsgInvalidJSON    = "Invalid JSON!"
	MsgMissingPrefix  = "Missing attribute(s): "
	MsgCaptchaFailed  = "Captcha verification failed!"
	MsgEmptyAttribute = "Empty title, username, or content."
)

// JSONContentType is the only Content-Type accepted for new posts.
const JSONContentType = "application/json"

// ValidationError is a rejected submission. Message is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func reject(message string) error {
	return &ValidationError{Message: message}
}

// PostService handles business logic for posts
type PostService struct {
	postRepo repositories.PostRepository
	verifier captcha.Verifier
}

// NewPostService creates a new PostService. A nil verifier disables the CAPTCHA check
// and the captcha attribute is then not required.
func NewPostService(postRepo repositories.PostRepository, verifier captcha.Verifier) *PostService {
	return &PostService{
		postRepo: postRepo,
		verifier: verifier,
	}
}

// CaptchaRequired reports whether submissions must carry a captcha token.
func (s *PostService) CaptchaRequired() bool {
	return s.verifier != nil
}

// CreatePost runs a submission through validation and stores it. Checks run in order
// and stop at the first failure, which is returned as a *ValidationError. Any other
// error comes from storage.
func (s *PostService) CreatePost(ctx context.Context, contentType string, body []byte) (*models.Post, error) {
	if contentType != JSONContentType {
		return nil, reject(MsgNotJSON)
	}

	submission, err := models.DecodeSubmission(body)
	if err != nil {
		return nil, reject(MsgInvalidJSON)
	}

	if missing := submission.Missing(s.CaptchaRequired()); len(missing) > 0 {
		return nil, reject(MsgMissingPrefix + strings.Join(missing, ", "))
	}

	if s.CaptchaRequired() {
		ok, err := s.verifier.Verify(ctx, *submission.Captcha)
		if err != nil {
			log.Printf("captcha verification error: %v", err)
		}
		if !ok {
			return nil, reject(MsgCaptchaFailed)
		}
	}

	post := submission.Post()
	if err := post.Validate(); err != nil {
		return nil, reject(MsgEmptyAttribute)
	}

	if _, err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns every stored post
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}
