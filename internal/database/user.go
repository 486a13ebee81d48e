package database

import (
	"github.com/google/uuid"
	"github.com/picklematch/picklematch/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.db.Create(user).Error; err != nil {
		return err
	}
	return nil
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserFields applies a partial update; only the given columns change.
func (d *Database) UpdateUserFields(id uuid.UUID, fields map[string]interface{}) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (d *Database) SetAvatar(id uuid.UUID, path *string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("avatar", path).Error
}

func (d *Database) SetPassword(id uuid.UUID, hash string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}
