// Package redirect runs the plain HTTP listener that sends every client to
// the HTTPS site with a 301.
package redirect

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HSTSValue is sent in Strict-Transport-Security when HSTS is enabled.
const HSTSValue = "max-age=2592000"

// Config describes how requests are rewritten.
type Config struct {
	// HTTPPort is the port the redirect listener binds.
	HTTPPort int
	// HTTPSPort is the port of the target URL; 443 is left implicit.
	HTTPSPort int
	// TranslateURL maps the requested URL (path and query) to the target path.
	TranslateURL func(string) string
	// TranslateHost maps the requested host, without port, to the target host.
	TranslateHost func(string) string
	// HSTS adds a Strict-Transport-Security header to every redirect.
	HSTS bool
}

// DefaultConfig redirects port 80 to the site root on port 443 of the same host.
func DefaultConfig() Config {
	return Config{
		HTTPPort:      80,
		HTTPSPort:     443,
		TranslateURL:  func(string) string { return "/" },
		TranslateHost: func(host string) string { return host },
	}
}

// PreservePath keeps the requested URL unchanged.
func PreservePath(url string) string { return url }

// FixedHost returns a host translator that always yields host.
func FixedHost(host string) func(string) string {
	return func(string) string { return host }
}

// Location builds the redirect target for a request. host carries no port
// and IPv6 literals come without brackets.
func (c Config) Location(host, url string) string {
	target := c.TranslateHost(host)
	path := c.TranslateURL(url)
	if c.HTTPSPort == 443 {
		if strings.Contains(target, ":") {
			target = "[" + target + "]"
		}
		return "https://" + target + path
	}
	return "https://" + net.JoinHostPort(target, strconv.Itoa(c.HTTPSPort)) + path
}

// hostname drops the port and IPv6 brackets from a Host header value.
func hostname(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]")
}

// Handler answers every request with a 301 to the HTTPS location and closes
// the connection.
func (c Config) Handler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Response().SetConnectionClose()

		host := hostname(ctx.Hostname())
		if host == "" {
			return ctx.SendStatus(fiber.StatusBadRequest)
		}

		ctx.Set(fiber.HeaderLocation, c.Location(host, ctx.OriginalURL()))
		if c.HSTS {
			ctx.Set(fiber.HeaderStrictTransportSecurity, HSTSValue)
		}
		return ctx.SendStatus(fiber.StatusMovedPermanently)
	}
}

// NewApp builds the redirect listener application.
func NewApp(cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cfg.Handler())
	return app
}

// Serve listens on cfg.HTTPPort until ctx is cancelled.
func Serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	app := NewApp(cfg)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("redirect listener started",
		zap.String("addr", addr),
		zap.Int("https_port", cfg.HTTPSPort),
		zap.Bool("hsts", cfg.HSTS))
	return app.Listen(addr)
}
