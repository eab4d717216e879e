package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post is a stored post. It carries no ID: posts are addressed by their storage key.
type Post struct {
	Username string `json:"username" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// Submission is a decoded POST /posts body. A nil field means the attribute was
// absent or null.
type Submission struct {
	Title    *string `json:"title"`
	Username *string `json:"username"`
	Content  *string `json:"content"`
	Captcha  *string `json:"captcha"`
}
