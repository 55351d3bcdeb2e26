package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/uptrace/bun"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByLegacyID(ctx context.Context, legacyID string) (*models.Category, error)
	GetAll(ctx context.Context) ([]*models.Category, error)
	IncrementTopicCount(ctx context.Context, id int64) error
	EnsureSeedCategories(ctx context.Context) error
}

type categoryRepository struct {
	db *bun.DB
}

func NewCategoryRepository(db *bun.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// seedCategories are the premium discussion categories every deployment
// starts with, carried over from the legacy forum.
var seedCategories = []models.Category{
	{LegacyID: "unique1", Name: "Устаревшие ремёсла", Description: "Исследование исчезнувших профессий в аниме и манге.", Type: "discussion", IsUnique: true},
	{LegacyID: "unique2", Name: "Синестезия в аниме", Description: "Визуальные и звуковые эксперименты в тайтлах.", Type: "discussion", IsUnique: true},
	{LegacyID: "unique3", Name: "Вымышленные традиции", Description: "Уникальные ритуалы выдуманных миров.", Type: "discussion", IsUnique: true},
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(category).Exec(ctx)
	return err
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category := new(models.Category)
	err := r.db.NewSelect().
		Model(category).
		Where("cat.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) GetByLegacyID(ctx context.Context, legacyID string) (*models.Category, error) {
	category := new(models.Category)
	err := r.db.NewSelect().
		Model(category).
		Where("legacy_id = ?", legacyID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.NewSelect().
		Model(&categories).
		Order("name ASC").
		Scan(ctx)
	return categories, err
}

func (r *categoryRepository) IncrementTopicCount(ctx context.Context, id int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Category)(nil)).
		Set("topic_count = topic_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *categoryRepository) EnsureSeedCategories(ctx context.Context) error {
	for _, seed := range seedCategories {
		_, err := r.GetByLegacyID(ctx, seed.LegacyID)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		category := seed
		if err := r.Create(ctx, &category); err != nil {
			return err
		}
	}
	return nil
}
