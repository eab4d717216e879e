package service

import (
	"fmt"
	"net/http"
	"os"

	"postboard/app/config"

	"golang.org/x/crypto/acme/autocert"
)

// ACME challenge listener used alongside the HTTPS server.
const challengeAddr = ":80"

// newServers builds the HTTP servers for cfg. Without a TLS domain there is a single
// plain server on cfg.Addr. With one, the first server listens on :443 with Let's
// Encrypt certificates and the second answers ACME challenges on :80.
func newServers(cfg *config.Config, handler http.Handler) ([]*http.Server, error) {
	if cfg.TLSDomain == "" {
		return []*http.Server{{Addr: cfg.Addr, Handler: handler}}, nil
	}

	manager, err := newCertManager(cfg)
	if err != nil {
		return nil, err
	}

	return []*http.Server{
		{
			Addr:      ":443",
			Handler:   handler,
			TLSConfig: manager.TLSConfig(),
		},
		{
			Addr:    challengeAddr,
			Handler: manager.HTTPHandler(nil),
		},
	}, nil
}

func newCertManager(cfg *config.Config) (*autocert.Manager, error) {
	if err := os.MkdirAll(cfg.CertCacheDir, 0700); err != nil {
		return nil, fmt.Errorf("create certificate cache: %w", err)
	}
	return &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomain),
		Cache:      autocert.DirCache(cfg.CertCacheDir),
	}, nil
}
