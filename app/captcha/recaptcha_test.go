package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSiteverify(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "shh", r.PostForm.Get("secret"))

		w.WriteHeader(status)
		if r.PostForm.Get("response") == "good" {
			w.Write([]byte(`{"success": true}`))
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecaptchaVerifier(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		srv := newSiteverify(t, http.StatusOK, `{"success": false}`)
		v := NewRecaptchaVerifier("shh", srv.URL, time.Second)

		ok, err := v.Verify(ctx, "good")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejected token", func(t *testing.T) {
		srv := newSiteverify(t, http.StatusOK, `{"success": false, "error-codes": ["invalid-input-response"]}`)
		v := NewRecaptchaVerifier("shh", srv.URL, time.Second)

		ok, err := v.Verify(ctx, "bad")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed response", func(t *testing.T) {
		srv := newSiteverify(t, http.StatusOK, `<html>`)
		v := NewRecaptchaVerifier("shh", srv.URL, time.Second)

		ok, err := v.Verify(ctx, "bad")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("server error", func(t *testing.T) {
		srv := newSiteverify(t, http.StatusInternalServerError, `{}`)
		v := NewRecaptchaVerifier("shh", srv.URL, time.Second)

		ok, err := v.Verify(ctx, "bad")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := newSiteverify(t, http.StatusOK, `{}`)
		srv.Close()
		v := NewRecaptchaVerifier("shh", srv.URL, time.Second)

		ok, err := v.Verify(ctx, "good")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("default url", func(t *testing.T) {
		v := NewRecaptchaVerifier("shh", "", time.Second)
		assert.Equal(t, DefaultVerifyURL, v.verifyURL)
	})
}
