// Package usrpostgres provides user-records persistence in postgres
package usrpostgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

func (p PostgresRepo) Create(ctx context.Context, u *model.User) error {
	query := `INSERT INTO users (username, hashed_password)
	VALUES ($1, $2)
	RETURNING id`

	err := p.DB.QueryRowContext(ctx, query, u.Username, u.HashedPassword).Scan(&u.ID)
	if err != nil {
		// уникальность username держит схема - гонку двух одновременных signup ловим здесь
		if strings.Contains(err.Error(), "duplicate key") {
			return model.ErrUserExists // 400
		}
		return err // 500
	}
	return nil
}

func (p PostgresRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, hashed_password
	FROM users
	WHERE username = $1`
	var user model.User

	err := p.DB.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.HashedPassword)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrUserNotFound
		default:
			return nil, err // 500
		}
	}
	return &user, nil
}
