package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// KeySeparator joins the timestamp and username in a post's storage key.
const KeySeparator = ":"

// Validate checks that no attribute is empty.
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// Key returns the storage key for a post created at t.
func (p *Post) Key(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10) + KeySeparator + p.Username
}

// DecodeSubmission decodes a POST body. Known attributes must be strings or null.
// A body that parses but is not an object has no attributes, so every one of them
// is reported missing.
func DecodeSubmission(body []byte) (*Submission, error) {
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe.(map[string]any); !ok {
		return &Submission{}, nil
	}

	var s Submission
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	return &s, nil
}

// Missing lists the absent attributes in checking order. The captcha attribute is
// only checked when requireCaptcha is set.
func (s *Submission) Missing(requireCaptcha bool) []string {
	var missing []string
	if s.Title == nil {
		missing = append(missing, "title")
	}
	if s.Username == nil {
		missing = append(missing, "username")
	}
	if s.Content == nil {
		missing = append(missing, "content")
	}
	if requireCaptcha && s.Captcha == nil {
		missing = append(missing, "captcha")
	}
	return missing
}

// Post strips the captcha and returns the storable post. Absent attributes become
// empty strings.
func (s *Submission) Post() *Post {
	return &Post{
		Username: deref(s.Username),
		Title:    deref(s.Title),
		Content:  deref(s.Content),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
