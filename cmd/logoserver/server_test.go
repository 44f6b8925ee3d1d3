package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/config"
	"github.com/tickerlogos/tickerlogos/internal/lookup"
	"github.com/tickerlogos/tickerlogos/internal/testutil"
)

// ---------------------------------------------------------------------------
// parseFlags
// ---------------------------------------------------------------------------

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv(config.RootEnvVar, "")
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseFlags_Overrides(t *testing.T) {
	t.Setenv(config.RootEnvVar, "")
	cfg, err := parseFlags([]string{
		"-addr", ":9999",
		"-logos-root", "/srv/logos",
		"-fallback-mode", "deterministic",
		"-fallback-rate", "5",
		"-allowed-origins", "https://a.example.com, https://a.example.com,https://b.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "/srv/logos", cfg.LogosRoot)
	assert.Equal(t, lookup.FallbackDeterministic, cfg.FallbackMode)
	assert.Equal(t, 5.0, cfg.FallbackRate)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestParseFlags_FileEnvAndFlagPrecedence(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("logosRoot: /from/file\naddr: \":7000\"\ndocsURL: /help\n"), 0o600))
	t.Setenv(config.RootEnvVar, "/from/env")

	cfg, err := parseFlags([]string{"-config", p, "-addr", ":7001"})
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.LogosRoot)
	assert.Equal(t, ":7001", cfg.Addr)
	assert.Equal(t, "/help", cfg.DocsURL)
}

func TestParseFlags_EmptyOriginsDisableCORS(t *testing.T) {
	cfg, err := parseFlags([]string{"-allowed-origins", ""})
	require.NoError(t, err)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestParseFlags_Invalid(t *testing.T) {
	_, err := parseFlags([]string{"-fallback-mode", "random"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("loud")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// newService
// ---------------------------------------------------------------------------

func TestNewService(t *testing.T) {
	root, _ := testutil.LogoTree(t, "ticker_icons/aapl.png", "crypto_icons/btc.svg")
	cfg := config.Default()
	cfg.LogosRoot = root
	cfg.FallbackRate = 1

	svc, err := newService(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, svc.Index().Count())

	res, err := svc.Resolve(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, "crypto_icons/btc.svg", res.Path)
}

func TestNewService_MissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.LogosRoot = filepath.Join(t.TempDir(), "missing")

	svc, err := newService(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, svc.Index().Count())
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

func TestNewServer(t *testing.T) {
	handler := http.NotFoundHandler()
	cfg := ServerConfig{
		Addr:        ":9443",
		TLSCertFile: "/tmp/cert.pem",
		TLSKeyFile:  "/tmp/key.pem",
	}

	srv := NewServer(cfg, handler, zap.NewNop())

	require.NotNil(t, srv)
	assert.Equal(t, ":9443", srv.config.Addr)
	assert.Equal(t, "/tmp/cert.pem", srv.config.TLSCertFile)
	assert.NotNil(t, srv.logger)
}

func TestServer_StartAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	srv := NewServer(ServerConfig{Addr: "127.0.0.1:0"}, handler, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	resp, err := http.Get("http://" + srv.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_ListenError(t *testing.T) {
	srv := NewServer(ServerConfig{Addr: "256.0.0.1:bad"}, http.NotFoundHandler(), zap.NewNop())
	err := srv.Start(context.Background())
	assert.Error(t, err)

	addr := make(chan net.Addr, 1)
	go func() { addr <- srv.Addr() }()
	select {
	case got := <-addr:
		assert.Nil(t, got)
	case <-time.After(5 * time.Second):
		t.Fatal("Addr blocked after a failed Start")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	root, _ := testutil.LogoTree(t, "ticker_icons/aapl.png")
	cfg := config.Default()
	cfg.LogosRoot = root
	cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zap.NewNop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
