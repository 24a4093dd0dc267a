package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/cityevents/internal/domain/user"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, name, roles, created_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.Name,
			&u.Roles,
			&u.CreatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}

	err := r.prom.ObserveDB("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, name, roles, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			u.Email, u.PasswordHash, u.Name, roles, u.CreatedAt,
		).Scan(&u.ID)
	})
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.Roles = roles
	return u, nil
}
