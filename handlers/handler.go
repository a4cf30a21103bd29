package handlers

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/config"
	"github.com/artlurun/api/ledger"
	"github.com/artlurun/api/notify"
	"github.com/artlurun/api/reconcile"
	"github.com/artlurun/api/status"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	cfg        *config.Config
	ledger     *ledger.Ledger
	catalog    *catalog.Catalog
	resolver   *status.Resolver
	reconciler *reconcile.Reconciler
	notifier   notify.Notifier
	log        *zap.Logger
}

// New wires the domain components on top of the database connection.
func New(db *bun.DB, cfg *config.Config, log *zap.Logger) *Handler {
	ldg := ledger.New(db)
	cat := catalog.New(db)
	mailer := notify.NewMailer(cfg, log)

	return &Handler{
		cfg:        cfg,
		ledger:     ldg,
		catalog:    cat,
		resolver:   status.NewResolver(ldg, cat),
		reconciler: reconcile.New(ldg, cat, mailer, cfg.AdminEmail, log),
		notifier:   mailer,
		log:        log,
	}
}
