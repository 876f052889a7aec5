package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymconnect/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("profile not found")

const profileColumns = `id, name, email, password_hash, role, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.GetContext(ctx, &p.CreatedAt, query, p.ID, p.Name, p.Email, p.PasswordHash, p.Role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *repository) findOne(ctx context.Context, query string, arg string) (*Profile, error) {
	var p Profile
	if err := r.db.GetContext(ctx, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}
