package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/bagelshop/internal/api/authz"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("user is already an admin")
)

type AdminStore struct {
	db *DB
}

func NewAdminStore(db *DB) *AdminStore {
	return &AdminStore{db: db}
}

// GetAdmin returns ErrAdminNotFound when userID has no admin row.
func (s *AdminStore) GetAdmin(ctx context.Context, userID string) (authz.Admin, error) {
	var (
		admin     authz.Admin
		createdAt string
	)
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT user_id, role, created_at FROM admins WHERE user_id = ?`, userID).
		Scan(&admin.UserID, &admin.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return authz.Admin{}, ErrAdminNotFound
	}
	if err != nil {
		return authz.Admin{}, fmt.Errorf("query admin: %w", err)
	}
	if admin.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return authz.Admin{}, err
	}
	return admin, nil
}

func (s *AdminStore) ListAdmins(ctx context.Context) ([]authz.Admin, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT user_id, role, created_at FROM admins ORDER BY created_at ASC, user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query admins: %w", err)
	}
	defer rows.Close()

	admins := make([]authz.Admin, 0)
	for rows.Next() {
		var (
			admin     authz.Admin
			createdAt string
		)
		if err := rows.Scan(&admin.UserID, &admin.Role, &createdAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		if admin.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admins: %w", err)
	}
	return admins, nil
}

func (s *AdminStore) CreateAdmin(ctx context.Context, userID string, now time.Time) (authz.Admin, error) {
	admin := authz.Admin{UserID: userID, Role: authz.RoleAdmin, CreatedAt: now.UTC()}
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO admins (user_id, role, created_at) VALUES (?, ?, ?)`,
		admin.UserID, admin.Role, admin.CreatedAt.Format(timestampLayout))
	if err != nil {
		if IsUniqueViolation(err) {
			return authz.Admin{}, ErrAdminExists
		}
		return authz.Admin{}, fmt.Errorf("insert admin: %w", err)
	}
	return admin, nil
}

func (s *AdminStore) DeleteAdmin(ctx context.Context, userID string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM admins WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return requireAffected(res, ErrAdminNotFound)
}
