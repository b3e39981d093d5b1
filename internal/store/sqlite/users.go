package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"studentms/internal/store"
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *store.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password, role, name, email) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, u.Name, u.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*store.User, error) {
	var u store.User
	var email sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &email); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Email = email.String
	return &u, nil
}

func (s *SQLiteStore) UserByUsername(ctx context.Context, username string) (*store.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, role, name, email FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (*store.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, role, name, email FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *SQLiteStore) queryUsers(ctx context.Context, query string, args ...any) ([]store.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var out []store.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AllUsers(ctx context.Context) ([]store.User, error) {
	return s.queryUsers(ctx,
		`SELECT id, username, password, role, name, email FROM users ORDER BY id`)
}

func (s *SQLiteStore) SearchUsers(ctx context.Context, keyword string) ([]store.User, error) {
	pattern := "%" + keyword + "%"
	return s.queryUsers(ctx,
		`SELECT id, username, password, role, name, email FROM users
		 WHERE username LIKE ? OR name LIKE ? ORDER BY id`, pattern, pattern)
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, id int64, upd store.UserUpdate) (store.UpdateResult, error) {
	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *upd.Role)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if len(sets) == 0 {
		return store.Updated, nil
	}
	args = append(args, id)

	n, err := s.execExpectRow(ctx,
		fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(sets, ", ")), args...)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) (store.UpdateResult, error) {
	n, err := s.execExpectRow(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}
