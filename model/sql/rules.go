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
	insertRuleQuery = `INSERT INTO rules (chat_id, text) VALUES (?, ?)`

	countRulesQuery = `SELECT COUNT(*) FROM rules WHERE chat_id = ?`

	selectRuleAtQuery = `SELECT id, text
	FROM rules
	WHERE chat_id = ?
	ORDER BY id
	LIMIT 1 OFFSET ?`

	deleteRuleQuery = `DELETE FROM rules WHERE id = ?`

	listRulesQuery = `SELECT text FROM rules WHERE chat_id = ? ORDER BY id`
)

type ruleRepository struct {
	*sqlx.DB
	log *logger.Logger
}

func NewRuleRepository(db *sqlx.DB) *ruleRepository {
	return &ruleRepository{
		DB:  db,
		log: logger.New("ruleRepository"),
	}
}

func (db *ruleRepository) AppendRule(ctx context.Context, chat model.ChatID, text string) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}

	defer func(tx *sqlx.Tx) {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.log.Err(err).Msg("failed to rollback transaction")
		}
	}(tx)

	if _, err := tx.ExecContext(ctx, insertRuleQuery, chat, text); err != nil {
		return 0, err
	}

	var count int
	if err := tx.GetContext(ctx, &count, countRulesQuery, chat); err != nil {
		return 0, err
	}

	return count, tx.Commit()
}

func (db *ruleRepository) RemoveRule(ctx context.Context, chat model.ChatID, position int) (string, error) {
	if position < 1 {
		return "", model.ErrOutOfRange
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}

	defer func(tx *sqlx.Tx) {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.log.Err(err).Msg("failed to rollback transaction")
		}
	}(tx)

	var row struct {
		ID   int64  `db:"id"`
		Text string `db:"text"`
	}
	err = tx.GetContext(ctx, &row, selectRuleAtQuery, chat, position-1)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrOutOfRange
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, deleteRuleQuery, row.ID); err != nil {
		return "", err
	}

	return row.Text, tx.Commit()
}

func (db *ruleRepository) ListRules(ctx context.Context, chat model.ChatID) ([]string, error) {
	rules := make([]string, 0)
	err := db.SelectContext(ctx, &rules, listRulesQuery, chat)
	return rules, err
}
