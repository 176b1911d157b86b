package probe

import (
	"context"
	"encoding/json"
	"strings"

	"oarr/internal/platform/logger"
)

// Geolocate returns the upper case ISO country code the host's address is located in,
// or "" when any step fails
func (i *Info) Geolocate(ctx context.Context, host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || i.c.opts.GeoEndpoint == "" {
		return ""
	}
	return memo(i, keyGeo+host, func() string {
		ip, err := i.c.resolve(ctx, host)
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("host", host).Msg("probe resolve failed")
			return ""
		}
		resp := i.URLGet(ctx, i.c.opts.GeoEndpoint+ip)
		if resp == nil {
			return ""
		}
		var out struct {
			CountryCode string `json:"country_code"`
		}
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			logger.C(ctx).Debug().Err(err).Str("host", host).Msg("probe geolocation decode")
			return ""
		}
		return strings.ToUpper(strings.TrimSpace(out.CountryCode))
	})
}
