// Package probe is the per-run fetch cache detectors read the web through.
// A Client is shared by every probe in the process; each probe gets its own Info
package probe

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/netip"
	"time"

	"oarr/internal/platform/config"
	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 8 * time.Second
	minTimeout            = 5 * time.Second
	maxTimeout            = 10 * time.Second
	defaultAcceptLanguage = "en-GB,en;q=0.8"
	defaultUA             = "oarr-autodiscovery/1.0 (+https://github.com/oarr)"
	defaultMaxBody        = 4 << 20
	defaultGeoEndpoint    = "https://ipwho.is/"
)

// Options configures the Client
type Options struct {
	Timeout        time.Duration
	AcceptLanguage string
	UserAgent      string
	MaxBody        int64

	// RPS above zero turns on a politeness limiter shared by every probe on this Client
	RPS   float64
	Burst int

	// GeoEndpoint is prefixed to the IP; empty disables geolocation
	GeoEndpoint string
}

// FromEnv reads CORE_PROBE_*
func FromEnv() Options {
	c := config.New().Prefix("CORE_PROBE_")
	return Options{
		Timeout:        c.MayDurationBetween("TIMEOUT", defaultTimeout, minTimeout, maxTimeout),
		AcceptLanguage: c.MayString("ACCEPT_LANGUAGE", defaultAcceptLanguage),
		UserAgent:      c.MayString("USER_AGENT", defaultUA),
		MaxBody:        c.MayInt64("MAX_BODY", defaultMaxBody),
		RPS:            c.MayFloat64("RPS", 0),
		Burst:          c.MayInt("BURST", 1),
		GeoEndpoint:    c.MayString("GEO_ENDPOINT", defaultGeoEndpoint),
	}
}

// WhoisFunc returns the raw WHOIS answer for a host
type WhoisFunc func(ctx context.Context, host string) (string, error)

// ResolveFunc returns one IP address for a host
type ResolveFunc func(ctx context.Context, host string) (string, error)

// Client holds what probes share: the transport, the limiter and the lookup functions
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	whois   WhoisFunc
	resolve ResolveFunc
	log     logger.Logger
	now     func() time.Time
}

// Option customises a Client
type Option func(*Client)

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithWhois replaces the WHOIS lookup
func WithWhois(fn WhoisFunc) Option {
	return func(c *Client) { c.whois = fn }
}

// WithResolver replaces host resolution
func WithResolver(fn ResolveFunc) Option {
	return func(c *Client) { c.resolve = fn }
}

// NewClient creates a Client with defaults filled in. Certificate checks are off:
// many repositories run with broken TLS setups and still need probing
func NewClient(o Options, opts ...Option) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = defaultAcceptLanguage
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec

	c := &Client{
		http:    &http.Client{Timeout: o.Timeout, Transport: tr},
		opts:    o,
		whois:   lookupWhois(o.Timeout),
		resolve: lookupHost,
		log:     *logger.Named("probe"),
		now:     time.Now,
	}
	if o.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.RPS), o.Burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options returns the effective options
func (c *Client) Options() Options { return c.opts }

// NewInfo starts an empty fetch cache for one probe
func (c *Client) NewInfo() *Info {
	return newInfo(c)
}

// wait blocks on the politeness limiter when one is configured
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeTimeout, "probe rate limit wait")
	}
	return nil
}

// lookupHost returns host itself when it is an IP literal, otherwise its first IPv4
// address, otherwise its first address
func lookupHost(ctx context.Context, host string) (string, error) {
	if a, err := netip.ParseAddr(host); err == nil {
		return a.String(), nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "resolve %s", host)
	}
	if len(addrs) == 0 {
		return "", perr.Newf(perr.ErrorCodeNotFound, "no address for %s", host)
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}
