package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/quic-go/quic-go/http3"

	"github.com/sinwaunyu/site/internal/config"
	"github.com/sinwaunyu/site/internal/logging"
)

const (
	challengeAddr   = ":80"
	shutdownTimeout = 10 * time.Second
)

// BuildCertMagicTLS provisions or loads a certificate for cfg.Domain and
// returns the TLS config plus a handler answering HTTP-01 challenges.
func BuildCertMagicTLS(ctx context.Context, cfg config.TLSConfig) (*tls.Config, http.Handler, error) {
	if cfg.Domain == "" {
		return nil, nil, errors.New("tls.domain is required")
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}

	cm := certmagic.NewDefault()
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}
	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:     certmagic.LetsEncryptProductionCA,
		Email:  cfg.Email,
		Agreed: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, []string{cfg.Domain}); err != nil {
		return nil, nil, err
	}
	tlsConf := cm.TLSConfig()
	tlsConf.MinVersion = tls.VersionTLS12
	return tlsConf, issuer.HTTPChallengeHandler(http.HandlerFunc(redirectHTTPS)), nil
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
}

// altSvc advertises the HTTP/3 listener on TLS responses.
func altSvc(h3 *http3.Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h3.SetQUICHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

// Serve runs h on cfg.HTTPAddr until ctx is cancelled. With tls.domain set it
// serves HTTPS through CertMagic, answers ACME challenges on :80 and, when
// tls.http3 is on, also listens for HTTP/3 on the same port.
func Serve(ctx context.Context, cfg config.Config, h http.Handler, log logging.Logger) error {
	log = logging.OrNoOp(log)
	if cfg.TLS.Domain == "" {
		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
		log.Info("http.listen", "addr", cfg.HTTPAddr, "tls", false)
		return runServers(ctx, log, serveFn{srv, srv.ListenAndServe})
	}

	tlsConf, challenge, err := BuildCertMagicTLS(ctx, cfg.TLS)
	if err != nil {
		return err
	}
	https := &http.Server{Addr: cfg.HTTPAddr, Handler: h, TLSConfig: tlsConf, ReadHeaderTimeout: 10 * time.Second}
	plain := &http.Server{Addr: challengeAddr, Handler: challenge, ReadHeaderTimeout: 10 * time.Second}
	fns := []serveFn{
		{https, func() error { return https.ListenAndServeTLS("", "") }},
		{plain, plain.ListenAndServe},
	}
	if cfg.TLS.HTTP3 {
		h3 := &http3.Server{Addr: cfg.HTTPAddr, Handler: h, TLSConfig: http3.ConfigureTLSConfig(tlsConf)}
		https.Handler = altSvc(h3, h)
		fns = append(fns, serveFn{h3closer{h3}, h3.ListenAndServe})
	}
	log.Info("http.listen", "addr", cfg.HTTPAddr, "tls", true, "domain", cfg.TLS.Domain, "http3", cfg.TLS.HTTP3)
	return runServers(ctx, log, fns...)
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type h3closer struct{ s *http3.Server }

func (c h3closer) Shutdown(context.Context) error { return c.s.Close() }

type serveFn struct {
	srv   shutdowner
	serve func() error
}

func runServers(ctx context.Context, log logging.Logger, fns ...serveFn) error {
	errc := make(chan error, len(fns))
	for _, fn := range fns {
		go func(fn serveFn) {
			if err := fn.serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}(fn)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, fn := range fns {
		if serr := fn.srv.Shutdown(sctx); serr != nil {
			log.Warn("http.shutdown.failed", "error", serr)
		}
	}
	return err
}
