package middleware

import (
	"time"

	"github.com/BRIANBC93/RealEstate/controllers/idgen"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestLogger tags every request with a snowflake id and logs its outcome.
func RequestLogger(log *logrus.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestID := idgen.GenerateID()
		ctx.Locals("requestID", requestID)

		start := time.Now()
		err := ctx.Next()

		log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"duration":   time.Since(start).String(),
		}).Info("request completed")

		return err
	}
}
