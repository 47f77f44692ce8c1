package store

import (
	"context"
	"database/sql"

	"github.com/gardenlog/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername returns the single user with the given username. Zero rows
// yield ErrNotFound and more than one row yields ErrAmbiguous.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1
		LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return types.User{}, err
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var user types.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash); err != nil {
			return types.User{}, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return types.User{}, err
	}

	switch len(users) {
	case 0:
		return types.User{}, ErrNotFound
	case 1:
		return users[0], nil
	default:
		return types.User{}, ErrAmbiguous
	}
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}
