package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPlayerRank = "Beginner"
	DefaultElo        = 1000
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `gorm:"size:100" json:"first_name"`
	LastName    string    `gorm:"size:100" json:"last_name"`
	Avatar      *string   `gorm:"size:500" json:"avatar"`
	DateOfBirth *Date     `gorm:"type:date" json:"date_of_birth"`
	Location    string    `gorm:"size:200" json:"location"`
	PlayerRank  string    `gorm:"size:50;default:'Beginner'" json:"player_rank"`
	Elo         int       `gorm:"default:1000" json:"elo"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate fills the ID and rating defaults so they are present
// in the struct right after insert, not only in the table DDL.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.PlayerRank == "" {
		u.PlayerRank = DefaultPlayerRank
	}
	if u.Elo == 0 {
		u.Elo = DefaultElo
	}
	return nil
}
