// Package rayid provides request correlation middleware.
//
// Every incoming request is tagged with a unique ray id, stored in the
// request locals and echoed in the X-Ray-Id response header. The logger
// package picks the id up through logger.WithRayID.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the ray id.
const HeaderName = "X-Ray-Id"

// New creates the ray id middleware. An id supplied by the client in
// the X-Ray-Id request header is reused so traces can span services;
// otherwise a fresh UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)

		return c.Next()
	}
}
