package entities

import "time"

// User models the persisted representation of a marketplace profile.
type User struct {
	ID           string    `gorm:"type:varchar(128);primaryKey"`
	FullName     string    `gorm:"type:varchar(120);not null;default:''"`
	Email        string    `gorm:"type:varchar(255);index"`
	Role         string    `gorm:"type:varchar(16);not null;index"`
	ProfileImage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
