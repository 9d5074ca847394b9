package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrUsernameExists = errors.New("username already exists")

const userColumns = "id,username,email,password_hash,first_name,last_name,age,phone_number,status,is_active,created_at,updated_at"

func scanUser(row scanner) (model.User, error) {
	var (
		u      model.User
		age    sql.NullInt16
		phone  sql.NullString
		status string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&age, &phone, &status, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, translate(err)
	}
	if age.Valid {
		a := uint8(age.Int16)
		u.Age = &a
	}
	u.Phone = nullString(phone)
	u.Status = model.Status(status)
	return u, nil
}

// Create hashes the password, inserts a simple-tier user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, status) VALUES (?,?,?,?)",
		username, email, hash, model.StatusSimple)
	if err != nil {
		if errors.Is(translate(err), ErrConflict) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	return lastID(res)
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile overwrites the editable profile columns of u.ID with the
// values in u.  Credentials, status and activity are not touched.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User) error {
	var age any
	if u.Age != nil {
		age = *u.Age
	}
	var phone any
	if u.Phone != nil {
		phone = *u.Phone
	}
	return affected(r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, first_name=?, last_name=?, age=?, phone_number=? WHERE id=?",
		strings.ToLower(strings.TrimSpace(u.Email)), u.FirstName, u.LastName, age, phone, u.ID))
}

// SetStatus moves a user between tiers.  Only the admin tool calls it.
func (r *UserRepo) SetStatus(ctx context.Context, username string, status model.Status) error {
	return affected(r.DB.ExecContext(ctx,
		"UPDATE users SET status=? WHERE username=?", status, username))
}

// userCascade lists the statements that remove everything a user owns,
// children first.  Replies to the user's ratings go with them through the
// ratings.parent_id foreign key.
var userCascade = []string{
	"DELETE FROM ratings WHERE user_id=?",
	"DELETE fm FROM favorite_movies fm JOIN favorites f ON f.id = fm.favorite_id WHERE f.user_id=?",
	"DELETE FROM favorites WHERE user_id=?",
	"DELETE FROM history WHERE user_id=?",
	"DELETE FROM refresh_tokens WHERE user_id=?",
	"DELETE FROM users WHERE id=?",
}

// Delete removes the user and all dependent rows in one transaction.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? FOR UPDATE", id).Scan(&locked); err != nil {
			return translate(err)
		}
		for _, stmt := range userCascade {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}
