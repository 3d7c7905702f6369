package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresArchive stores the history snapshot in PostgreSQL. Each
// save rewrites the whole collection in one transaction, which keeps
// the archive an exact mirror of the in-memory store.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

// NewPostgresArchive creates an archive on an existing pool. The
// schema is expected to exist; see database.EnsureSchema.
func NewPostgresArchive(pool *pgxpool.Pool) (*PostgresArchive, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresArchive{pool: pool}, nil
}

func (a *PostgresArchive) Load(ctx context.Context) (snapshot, error) {
	var snap snapshot

	rows, err := a.pool.Query(ctx,
		`SELECT id, unit_id, unit_name, course_path, updated_at
		 FROM sessions
		 ORDER BY position ASC`,
	)
	if err != nil {
		return snapshot{}, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UnitID, &sess.UnitName, &sess.CoursePath, &sess.UpdatedAt); err != nil {
			return snapshot{}, fmt.Errorf("scan session: %w", err)
		}
		sess.Messages = []Message{}
		index[sess.ID] = len(snap.Sessions)
		snap.Sessions = append(snap.Sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return snapshot{}, fmt.Errorf("iterate sessions: %w", err)
	}

	msgRows, err := a.pool.Query(ctx,
		`SELECT session_id, id, role, content, saved, created_at
		 FROM session_messages
		 ORDER BY session_id, position ASC`,
	)
	if err != nil {
		return snapshot{}, fmt.Errorf("query messages: %w", err)
	}
	defer msgRows.Close()

	for msgRows.Next() {
		var sessionID string
		var msg Message
		if err := msgRows.Scan(&sessionID, &msg.ID, &msg.Role, &msg.Content, &msg.Saved, &msg.CreatedAt); err != nil {
			return snapshot{}, fmt.Errorf("scan message: %w", err)
		}
		if i, ok := index[sessionID]; ok {
			snap.Sessions[i].Messages = append(snap.Sessions[i].Messages, msg)
		}
	}
	if err := msgRows.Err(); err != nil {
		return snapshot{}, fmt.Errorf("iterate messages: %w", err)
	}

	err = a.pool.QueryRow(ctx, `SELECT session_id FROM history_current`).Scan(&snap.Current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return snapshot{}, fmt.Errorf("query current session: %w", err)
	}

	return snap, nil
}

func (a *PostgresArchive) Save(ctx context.Context, snap snapshot) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM history_current`); err != nil {
		return fmt.Errorf("clear current session: %w", err)
	}

	for pos, sess := range snap.Sessions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO sessions (id, position, unit_id, unit_name, course_path, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			sess.ID, pos, sess.UnitID, sess.UnitName, sess.CoursePath, sess.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		for mpos, msg := range sess.Messages {
			if _, err := tx.Exec(ctx,
				`INSERT INTO session_messages (id, session_id, position, role, content, saved, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				msg.ID, sess.ID, mpos, msg.Role, msg.Content, msg.Saved, msg.CreatedAt,
			); err != nil {
				return fmt.Errorf("insert message: %w", err)
			}
		}
	}

	if snap.Current != "" {
		if _, err := tx.Exec(ctx,
			`INSERT INTO history_current (session_id) VALUES ($1)`,
			snap.Current,
		); err != nil {
			return fmt.Errorf("set current session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
