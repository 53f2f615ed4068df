// admin_user_repository.go implements AdminUserRepository for operator
// accounts (admins and subadmins).
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vendorhub/vendorhub/internal/db/models"
)

// AdminUserRepository handles operator account database operations
type AdminUserRepository struct {
	db *sql.DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db *sql.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// Create inserts a new operator account. Returns ErrDuplicate if the email is
// already taken.
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	user.ID = uuid.New().String()
	if user.Role == "" {
		user.Role = models.RoleSubadmin
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO admin_users (id, email, password_hash, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID retrieves an operator account by ID
func (r *AdminUserRepository) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	query := `SELECT id, email, password_hash, name, role, created_at, updated_at FROM admin_users WHERE id = $1`

	user := &models.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves an operator account by email
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT id, email, password_hash, name, role, created_at, updated_at FROM admin_users WHERE email = $1`

	user := &models.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves operator accounts filtered by role, newest first. Empty role
// returns all accounts.
func (r *AdminUserRepository) List(ctx context.Context, role string, limit, offset int) ([]*models.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM admin_users
	`
	args := []interface{}{limit, offset}
	if role != "" {
		query += ` WHERE role = $3`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.AdminUser, 0)
	for rows.Next() {
		user := &models.AdminUser{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update overwrites an operator account's mutable fields. Returns ErrNotFound
// if the account does not exist.
func (r *AdminUserRepository) Update(ctx context.Context, user *models.AdminUser) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE admin_users
		SET email = $2, name = $3, password_hash = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes an operator account. Returns ErrNotFound if the account does
// not exist.
func (r *AdminUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Count returns the total number of operator accounts
func (r *AdminUserRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&total)
	return total, err
}
