package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mileusna/useragent"
	"go.uber.org/zap"
)

// RequestLogger logs each request once it completes and records it in metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(c.Route().Path, c.Method(), status, elapsed)

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("client", DeviceClass(c.Get(fiber.HeaderUserAgent))),
		)
		return err
	}
}

// DeviceClass summarizes a User-Agent header as "<name>/<device>".
func DeviceClass(header string) string {
	ua := useragent.Parse(header)

	var mode string
	switch {
	case ua.Bot:
		mode = "bot"
	case ua.Mobile:
		mode = "phone"
	case ua.Tablet:
		mode = "tablet"
	case ua.Desktop:
		mode = "desktop"
	default:
		mode = "unknown"
	}
	name := ua.Name
	if name == "" {
		name = "-"
	}
	return name + "/" + mode
}
