package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/cityevents/internal/domain/user"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/uptrace/bun"
)

type UsersRepo struct {
	db   *bun.DB
	prom *observability.Prom
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := r.prom.ObserveDB("users.get_by_email", func() error {
		return r.db.NewSelect().Model(&row).Where("u.email = ?", email).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	row := userRow{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Roles:        strings.Join(u.Roles, ","),
		CreatedAt:    u.CreatedAt,
	}

	err := r.prom.ObserveDB("users.create", func() error {
		_, err := r.db.NewInsert().Model(&row).Returning("id").Exec(ctx)
		return err
	})
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain(), nil
}
