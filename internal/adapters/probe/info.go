package probe

import (
	"context"
	"io"
	"net/http"

	"oarr/internal/core/detector"
	"oarr/internal/platform/logger"

	gocache "github.com/patrickmn/go-cache"
)

// cache key prefixes
const (
	keyTimeout = "timeout_"
	keySoup    = "soup_"
	keyXML     = "xml_"
	keyFeed    = "feed_"
	keyGraph   = "graph_"
	keyWhois   = "whois_"
	keyGeo     = "geo_"
	keyMemo    = "memo_"
)

// Info memoizes every lookup made during one probe. It is not safe for concurrent use
// by more than one probe and is dropped when the probe ends
type Info struct {
	c     *Client
	cache *gocache.Cache
}

var _ detector.Info = (*Info)(nil)

func newInfo(c *Client) *Info {
	// no expiry and no janitor: entries live exactly as long as the probe
	return &Info{c: c, cache: gocache.New(gocache.NoExpiration, 0)}
}

func (i *Info) put(key string, v any) { i.cache.Set(key, v, gocache.NoExpiration) }

// URLGet returns the response for url when it was 2xx
func (i *Info) URLGet(ctx context.Context, url string) *detector.Response {
	if resp := i.fetch(ctx, url); resp.OK() {
		return resp
	}
	return nil
}

// URLGetStatus returns the response for url whatever its status
func (i *Info) URLGetStatus(ctx context.Context, url string) *detector.Response {
	return i.fetch(ctx, url)
}

// TimedOut reports whether url failed at the transport level earlier in this probe
func (i *Info) TimedOut(url string) bool {
	_, ok := i.cache.Get(keyTimeout + url)
	return ok
}

// fetch performs the GET once per url. Transport failures leave a sticky marker so the
// url is never retried within the probe
func (i *Info) fetch(ctx context.Context, url string) *detector.Response {
	if i.TimedOut(url) {
		return nil
	}
	if v, ok := i.cache.Get(url); ok {
		return v.(*detector.Response)
	}

	log := logger.C(ctx)
	if err := i.c.wait(ctx); err != nil {
		log.Debug().Err(err).Str("url", url).Msg("probe fetch not attempted")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("probe bad url")
		i.put(keyTimeout+url, true)
		return nil
	}
	req.Header.Set("Accept-Language", i.c.opts.AcceptLanguage)
	req.Header.Set("User-Agent", i.c.opts.UserAgent)

	start := i.c.now()
	resp, err := i.c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Dur("latency", i.c.now().Sub(start)).Msg("probe fetch failed")
		i.put(keyTimeout+url, true)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, i.c.opts.MaxBody))
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("probe body read failed")
		i.put(keyTimeout+url, true)
		return nil
	}

	out := &detector.Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("latency", i.c.now().Sub(start)).
		Msg("probe fetch")
	i.put(url, out)
	return out
}

// Remember stores a memo for later detectors
func (i *Info) Remember(key string, v any) { i.put(keyMemo+key, v) }

// Recall returns a memo left by an earlier detector
func (i *Info) Recall(key string) (any, bool) { return i.cache.Get(keyMemo + key) }

// memo runs build once per key and caches the result, failures included
func memo[T any](i *Info, key string, build func() T) T {
	if v, ok := i.cache.Get(key); ok {
		return v.(T)
	}
	v := build()
	i.put(key, v)
	return v
}
