package sql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/nexusdev/groupguard/logger"
	"github.com/nexusdev/groupguard/model"
)

const (
	selectEntitlementQuery = `SELECT chat_id, expires_at, granted_by
	FROM entitlements
	WHERE chat_id = ?`

	upsertEntitlementQuery = `INSERT INTO
    entitlements (chat_id, expires_at, granted_by)
    VALUES (?, ?, ?)
    ON DUPLICATE KEY UPDATE expires_at = ?, granted_by = ?`
)

type entitlementRepository struct {
	*sqlx.DB
	log *logger.Logger
}

func NewEntitlementRepository(db *sqlx.DB) *entitlementRepository {
	return &entitlementRepository{
		DB:  db,
		log: logger.New("entitlementRepository"),
	}
}

func (db *entitlementRepository) GetEntitlement(ctx context.Context, chat model.ChatID) (model.Entitlement, error) {
	var e model.Entitlement
	err := db.GetContext(ctx, &e, selectEntitlementQuery, chat)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entitlement{}, model.ErrNotFound
	}
	if err != nil {
		return model.Entitlement{}, err
	}
	e.ExpiresAt = e.ExpiresAt.UTC()
	return e, nil
}

func (db *entitlementRepository) SaveEntitlement(ctx context.Context, e model.Entitlement) error {
	expiresAt := e.ExpiresAt.UTC()
	_, err := db.ExecContext(ctx, upsertEntitlementQuery,
		e.ChatID, expiresAt, e.GrantedBy,
		expiresAt, e.GrantedBy,
	)
	if err != nil {
		return err
	}

	db.log.Debug().
		Str("chat_id", e.ChatID.String()).
		Time("expires_at", expiresAt).
		Msg("Saved entitlement")
	return nil
}
