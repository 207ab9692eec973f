package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shawnadoherty9/travelogie-sub001/model"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceRepository persists cities, categories and points of interest.
type PlaceRepository struct {
	BaseRepository
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ==================== CITY METHODS ====================

func (r *PlaceRepository) FindCityByName(ctx context.Context, name string) (*model.City, error) {
	var city model.City
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

// CreateCity inserts a city with placeholder coordinates, or returns the
// existing row when another writer already created that name.
func (r *PlaceRepository) CreateCity(ctx context.Context, name, country string) (*model.City, error) {
	now := time.Now().UTC()
	city := model.City{
		ID:          newID(),
		Name:        name,
		Country:     country,
		Latitude:    0,
		Longitude:   0,
		Timezone:    shared.DefaultCityTimezone,
		Description: fmt.Sprintf("%s, %s", name, country),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&city).Error
	if err != nil {
		return nil, err
	}

	existing, err := r.FindCityByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("city %q not found after insert", name)
	}
	return existing, nil
}

// ==================== CATEGORY METHODS ====================

func (r *PlaceRepository) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory behaves like CreateCity: insert or get the existing name.
func (r *PlaceRepository) CreateCategory(ctx context.Context, name, icon string) (*model.Category, error) {
	now := time.Now().UTC()
	category := model.Category{
		ID:          newID(),
		Name:        name,
		Description: fmt.Sprintf("%s experiences", name),
		Icon:        icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return nil, err
	}

	existing, err := r.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("category %q not found after insert", name)
	}
	return existing, nil
}

// ==================== POINT OF INTEREST METHODS ====================

// BulkInsertPointsOfInterest writes all records in one INSERT statement.
func (r *PlaceRepository) BulkInsertPointsOfInterest(ctx context.Context, records []model.PointOfInterest) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = newID()
		}
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}

	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&records).Error
}

func (r *PlaceRepository) CountPointsOfInterest(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PointOfInterest{}).Count(&count).Error
	return count, err
}

func (r *PlaceRepository) ListPointsOfInterestByCity(ctx context.Context, cityID string) ([]model.PointOfInterest, error) {
	var records []model.PointOfInterest
	if err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
