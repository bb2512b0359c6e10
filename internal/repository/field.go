package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFieldNotFound = errors.New("profile field not found")

type FieldRepository interface {
	GetField(ctx context.Context, id int64) (*domain.FieldDefinition, error)
	SaveField(ctx context.Context, def *domain.FieldDefinition) error
}

type fieldRepository struct {
	db *pgxpool.Pool
}

func NewFieldRepository(db *pgxpool.Pool) FieldRepository {
	return &fieldRepository{
		db: db,
	}
}

func (r *fieldRepository) GetField(ctx context.Context, id int64) (*domain.FieldDefinition, error) {
	query := `
	SELECT id, shortname, name, required, COALESCE(param1, ''), COALESCE(param2, ''),
	       COALESCE(param3, ''), COALESCE(param4, ''), COALESCE(defaultdata, '')
	FROM user_info_field
	WHERE id = $1 AND datatype = 'hierarchicalmenu'`

	var (
		def       domain.FieldDefinition
		required  int16
		levelsRaw string
		modeRaw   string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&def.ID, &def.ShortName, &def.Name, &required,
		&def.TreeJSON, &levelsRaw, &def.LabelsRaw, &modeRaw, &def.DefaultData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrFieldNotFound, id)
		}
		return nil, fmt.Errorf("failed to load field %d: %w", id, err)
	}

	def.Required = required != 0
	def.MaxLevels, _ = strconv.Atoi(levelsRaw) // blank or garbage resolves to the default later
	def.DisplayMode = domain.ParseDisplayMode(modeRaw)

	return &def, nil
}

func (r *fieldRepository) SaveField(ctx context.Context, def *domain.FieldDefinition) error {
	required := 0
	if def.Required {
		required = 1
	}

	query := `
	INSERT INTO user_info_field (id, shortname, name, datatype, required, param1, param2, param3, param4, defaultdata)
	VALUES ($1, $2, $3, 'hierarchicalmenu', $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id)
	DO UPDATE SET shortname = $2, name = $3, required = $4, param1 = $5, param2 = $6,
	              param3 = $7, param4 = $8, defaultdata = $9`
	_, err := r.db.Exec(ctx, query,
		def.ID, def.ShortName, def.Name, required,
		def.TreeJSON, strconv.Itoa(def.MaxLevels), def.LabelsRaw, def.DisplayMode.String(), def.DefaultData,
	)
	if err != nil {
		return fmt.Errorf("failed to save field %d: %w", def.ID, err)
	}

	return nil
}
