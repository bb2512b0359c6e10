package repository

import (
	"context"
	"errors"
	"fmt"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserDataRepository interface {
	// GetUserData returns "" when the user has no stored value
	GetUserData(ctx context.Context, fieldID, userID int64) (string, error)
	SaveUserData(ctx context.Context, fieldID, userID int64, data string) error
	ListUserData(ctx context.Context, fieldID int64) ([]domain.UserData, error)
}

type userDataRepository struct {
	db *pgxpool.Pool
}

func NewUserDataRepository(db *pgxpool.Pool) UserDataRepository {
	return &userDataRepository{
		db: db,
	}
}

func (r *userDataRepository) GetUserData(ctx context.Context, fieldID, userID int64) (string, error) {
	query := `SELECT COALESCE(data, '') FROM user_info_data WHERE fieldid = $1 AND userid = $2`

	var data string
	err := r.db.QueryRow(ctx, query, fieldID, userID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load data of user %d for field %d: %w", userID, fieldID, err)
	}

	return data, nil
}

func (r *userDataRepository) SaveUserData(ctx context.Context, fieldID, userID int64, data string) error {
	query := `
	INSERT INTO user_info_data (fieldid, userid, data, dataformat)
	VALUES ($1, $2, $3, 0)
	ON CONFLICT (fieldid, userid)
	DO UPDATE SET data = $3`
	_, err := r.db.Exec(ctx, query, fieldID, userID, data)
	if err != nil {
		return fmt.Errorf("failed to save data of user %d for field %d: %w", userID, fieldID, err)
	}

	return nil
}

func (r *userDataRepository) ListUserData(ctx context.Context, fieldID int64) ([]domain.UserData, error) {
	query := `SELECT fieldid, userid, COALESCE(data, '') FROM user_info_data WHERE fieldid = $1 ORDER BY userid`

	rows, err := r.db.Query(ctx, query, fieldID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data for field %d: %w", fieldID, err)
	}
	defer rows.Close()

	out := make([]domain.UserData, 0)
	for rows.Next() {
		var d domain.UserData
		if err := rows.Scan(&d.FieldID, &d.UserID, &d.Data); err != nil {
			return nil, fmt.Errorf("failed to scan user data: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user data: %w", err)
	}

	return out, nil
}
