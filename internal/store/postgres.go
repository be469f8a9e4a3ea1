package store

import (
	"context"
	"database/sql"
	"fmt"

	"hotdesk/internal/database"
	"hotdesk/internal/models"
)

// PostgresStore keeps reservations in Postgres. The version token lives in
// a single-row store_meta table and is bumped inside the same transaction
// as every mutation, giving real compare-and-swap across processes.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) LoadAll(ctx context.Context) ([]models.Reservation, Version, error) {
	var version Version
	err := p.db.QueryRowContext(ctx, `SELECT version FROM store_meta WHERE id = 1`).Scan(&version)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read store version: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT reservation_id, user_id, table_id, date, slot_type, created_at
		FROM reservations
		ORDER BY created_at`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load reservations: %w", err)
	}
	defer rows.Close()

	var recs []models.Reservation
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ReservationID, &r.UserID, &r.TableID, &r.Date, &r.SlotType, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		recs = append(recs, r)
	}
	return recs, version, rows.Err()
}

func (p *PostgresStore) Upsert(ctx context.Context, rec models.Reservation, expected Version) (Version, error) {
	var next Version
	err := p.inTx(ctx, expected, func(tx *sql.Tx, v Version) error {
		next = v
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reservations (reservation_id, user_id, table_id, date, slot_type, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (reservation_id) DO UPDATE
			SET user_id = $2, table_id = $3, date = $4, slot_type = $5`,
			rec.ReservationID, rec.UserID, rec.TableID, rec.Date, rec.SlotType, rec.CreatedAt)
		return err
	})
	return next, err
}

func (p *PostgresStore) Delete(ctx context.Context, reservationID string, expected Version) (Version, error) {
	var next Version
	err := p.inTx(ctx, expected, func(tx *sql.Tx, v Version) error {
		next = v
		res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = $1`, reservationID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	return next, err
}

func (p *PostgresStore) Reset(ctx context.Context) (Version, error) {
	var next Version
	err := p.inTx(ctx, -1, func(tx *sql.Tx, v Version) error {
		next = v
		_, err := tx.ExecContext(ctx, `DELETE FROM reservations`)
		return err
	})
	return next, err
}

// inTx bumps the version row with a conditional update and runs fn in the
// same transaction. expected == -1 skips the version check (reset).
func (p *PostgresStore) inTx(ctx context.Context, expected Version, fn func(tx *sql.Tx, next Version) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var next Version
	if expected >= 0 {
		err = tx.QueryRowContext(ctx, `
			UPDATE store_meta SET version = version + 1
			WHERE id = 1 AND version = $1
			RETURNING version`, expected).Scan(&next)
		if err == sql.ErrNoRows {
			return ErrVersionConflict
		}
	} else {
		err = tx.QueryRowContext(ctx, `
			UPDATE store_meta SET version = version + 1
			WHERE id = 1
			RETURNING version`).Scan(&next)
	}
	if err != nil {
		return fmt.Errorf("failed to bump store version: %w", err)
	}

	if err := fn(tx, next); err != nil {
		return err
	}
	return tx.Commit()
}

// GetUser implements UserDirectory.
func (p *PostgresStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, email FROM users WHERE user_id = $1`, userID).
		Scan(&user.UserID, &user.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (p *PostgresStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT user_id, email FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserID, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *PostgresStore) UpsertUser(ctx context.Context, user models.User) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET email = $2`,
		user.UserID, user.Email)
	return err
}
