package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/saldoboek/saldoboek/internal/model"
)

// CreateUser adds a user and returns its id.
func (db *DB) CreateUser(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("create user: empty name")
	}
	result, err := db.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("%q: %w", name, ErrUserExists)
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return result.LastInsertId()
}

// Users returns all users ordered by name.
func (db *DB) Users(ctx context.Context) ([]model.User, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserByName looks up a user.
func (db *DB) UserByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := db.QueryRowContext(ctx, `SELECT id, name FROM users WHERE name = ?`, strings.TrimSpace(name)).Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// DeleteUser removes a user together with their transactions and rules.
func (db *DB) DeleteUser(ctx context.Context, name string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrUserNotFound)
	}
	return nil
}
