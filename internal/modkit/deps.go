package modkit

import (
	"oarr/internal/modkit/repokit"
	"oarr/internal/platform/config"
	"oarr/internal/platform/logger"
	"oarr/internal/platform/store"
)

// Deps are the shared dependencies handed to every module constructor.
// PG and CH are nil when the backend is not configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
