package athletes

import "time"

// AthleteResponse is the API representation of an athlete record.
type AthleteResponse struct {
	AthleteID int64      `json:"athleteId"`
	Name      string     `json:"name"`
	Sport     string     `json:"sport"`
	Country   string     `json:"country,omitempty"`
	NickName  string     `json:"nickName,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	HeightCm  *float64   `json:"heightCm,omitempty"`
	WeightKg  *float64   `json:"weightKg,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toResponse(a Athlete) AthleteResponse {
	return AthleteResponse{
		AthleteID: a.ID,
		Name:      a.Name,
		Sport:     a.Sport,
		Country:   a.Country,
		NickName:  a.NickName,
		Bio:       a.Bio,
		BirthDate: a.BirthDate,
		HeightCm:  a.HeightCm,
		WeightKg:  a.WeightKg,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
