package dto

import "github.com/picklematch/picklematch/internal/models"

// UpdateProfileRequest carries a partial update: pointer fields
// distinguish "absent" from "set to the zero value".
type UpdateProfileRequest struct {
	FirstName   *string      `json:"first_name"`
	LastName    *string      `json:"last_name"`
	Location    *string      `json:"location"`
	PlayerRank  *string      `json:"player_rank"`
	Elo         *int         `json:"elo"`
	Description *string      `json:"description"`
	DateOfBirth *models.Date `json:"date_of_birth"`
}

// Fields returns the column updates for the fields that were present.
func (r *UpdateProfileRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.FirstName != nil {
		fields["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		fields["last_name"] = *r.LastName
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	if r.PlayerRank != nil {
		fields["player_rank"] = *r.PlayerRank
	}
	if r.Elo != nil {
		fields["elo"] = *r.Elo
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.DateOfBirth != nil {
		fields["date_of_birth"] = *r.DateOfBirth
	}
	return fields
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
}
