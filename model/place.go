package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// City is identified by its exact name.
type City struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:255"`
	Country     string    `json:"country" gorm:"size:255"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Timezone    string    `json:"timezone" gorm:"size:64"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category is identified by its exact name.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Icon        string    `json:"icon" gorm:"size:32"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PointOfInterest struct {
	ID               string      `json:"id" gorm:"primaryKey;type:text;not null"`
	Name             string      `json:"name" gorm:"not null;index"`
	ShortDescription string      `json:"short_description" gorm:"type:text"`
	Description      string      `json:"description" gorm:"type:text"`
	PriceFrom        float64     `json:"price_from" gorm:"not null"`
	DurationHours    int         `json:"duration_hours" gorm:"not null"`
	Rating           float64     `json:"rating"`
	ReviewCount      int         `json:"review_count"`
	ImageURLs        StringArray `json:"image_urls" gorm:"type:text"`
	Tags             StringArray `json:"tags" gorm:"type:text"`
	Currency         string      `json:"currency" gorm:"size:3;not null"`
	Address          string      `json:"address"`
	Region           string      `json:"region"`
	Neighborhood     string      `json:"neighborhood"`
	TicketURL        string      `json:"ticket_url"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	IsActive         bool        `json:"is_active" gorm:"not null"`
	CityID           *string     `json:"city_id" gorm:"type:text;index"`
	CategoryID       *string     `json:"category_id" gorm:"type:text;index"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	City     *City     `json:"city,omitempty" gorm:"foreignKey:CityID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (PointOfInterest) TableName() string {
	return "points_of_interest"
}

// StringArray is a list of strings stored as a JSON text column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := sonic.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}

	if len(raw) == 0 {
		*a = StringArray{}
		return nil
	}

	var out []string
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return err
	}
	*a = out
	return nil
}
