package store

import (
	"time"

	"oarr/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName tags connections (pg application_name, ch client info)
	AppName string
	Role    string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	MaxConnIdle time.Duration
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
}

// FromEnv reads PG_* and CH_*; a backend is enabled when its URL is set
func FromEnv(c config.Conf, role string) Config {
	pg := c.Prefix("PG_")
	ch := c.Prefix("CH_")
	cfg := Config{
		AppName: "oarr",
		Role:    role,
		PG: PGConfig{
			URL:            pg.MayString("URL", ""),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			MaxConnIdle:    pg.MayDuration("MAX_CONN_IDLE", 5*time.Minute),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			URL: ch.MayString("URL", ""),
		},
	}
	cfg.PG.Enabled = cfg.PG.URL != ""
	cfg.CH.Enabled = cfg.CH.URL != ""
	return cfg
}
