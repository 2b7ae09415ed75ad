package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Doctor is a read-only directory entry
type Doctor struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(150);not null" json:"name"`
	Specialty       string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Location        string          `gorm:"type:varchar(150)" json:"location,omitempty"`
	ExperienceYears int             `gorm:"not null;default:0" json:"experience_years"`
	About           string          `gorm:"type:text" json:"about,omitempty"`
	ImageURL        string          `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"consultation_fee"`
	Rating          float64         `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`
	RatingCount     int             `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) IDString() string {
	return strconv.FormatInt(d.ID, 10)
}
