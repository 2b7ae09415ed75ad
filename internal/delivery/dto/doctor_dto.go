package dto

import "github.com/shopspring/decimal"

// Request DTOs

type RateDoctorRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// Response DTOs

type DoctorResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Specialty       string          `json:"specialty"`
	Location        string          `json:"location,omitempty"`
	ExperienceYears int             `json:"experience_years"`
	About           string          `json:"about,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Rating          float64         `json:"rating"`
	RatingCount     int             `json:"rating_count"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type SpecialtyListResponse struct {
	Specialties []string `json:"specialties"`
	Total       int      `json:"total"`
}
