package database

import (
	"time"

	"github.com/picklematch/picklematch/internal/models"
)

func (d *Database) CreateSession(session *models.Session) error {
	return d.db.Create(session).Error
}

// FindActiveSession returns the session row for token if it exists and
// has not expired as of now.
func (d *Database) FindActiveSession(token string, now time.Time) (*models.Session, error) {
	session := models.Session{}
	err := d.db.Where("token = ? AND expires_at > ?", token, now).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes the session row for token. Deleting an absent
// row is not an error, which makes logout idempotent.
func (d *Database) DeleteSession(token string) error {
	return d.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteExpiredSessions removes rows whose expiry has passed and
// reports how many were swept.
func (d *Database) DeleteExpiredSessions(now time.Time) (int64, error) {
	res := d.db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
