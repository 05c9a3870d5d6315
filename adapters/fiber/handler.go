package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/farfully/farfully/adapters/neynar"
	"github.com/farfully/farfully/core"
)

// profileEnvelope matches the single-record envelope shape the browser
// client already parses from the gateway.
type profileEnvelope struct {
	User *core.RichProfile `json:"user"`
}

// handleProfile serves GET {base}/profile?fid=N.
func (a *Adapter) handleProfile(c fiber.Ctx) error {
	requestID, _ := a.ids.Generate(12)
	log := a.log.With(zap.String("request_id", requestID))

	fid, err := strconv.ParseInt(c.Query("fid"), 10, 64)
	if err != nil || fid <= 0 {
		return c.Status(http.StatusBadRequest).JSON(map[string]string{
			"error": "fid query parameter is required",
		})
	}

	if cached, err := a.cache.Get(fid); err == nil {
		return c.Status(http.StatusOK).JSON(profileEnvelope{User: cached})
	}

	if !a.limiter.Allow(rateKey(c.IP(), fid)) {
		log.Warn("relay rate limit hit", zap.Int64("fid", fid), zap.String("ip", c.IP()))
		return c.Status(http.StatusTooManyRequests).JSON(map[string]string{
			"error": "rate limit exceeded, try again shortly",
		})
	}

	profile, err := a.lookup.Fetch(c.Context(), fid)
	if err != nil {
		log.Warn("relay lookup failed", zap.Int64("fid", fid), zap.Error(err))
		return c.Status(mapErrorToStatus(err)).JSON(map[string]string{
			"error": err.Error(),
		})
	}

	if err := a.cache.Set(fid, profile); err != nil {
		log.Warn("relay cache write failed", zap.Int64("fid", fid), zap.Error(err))
	}

	return c.Status(http.StatusOK).JSON(profileEnvelope{User: profile})
}

// mapErrorToStatus maps lookup errors to HTTP status codes.
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrMissingFID):
		return http.StatusNotFound

	case errors.Is(err, neynar.ErrMissingAPIKey):
		return http.StatusInternalServerError

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusBadGateway
	}
}

func rateKey(ip string, fid int64) string {
	return ip + ":" + strconv.FormatInt(fid, 10)
}
