package models

import "time"

type User struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName     string    `gorm:"type:varchar(128)" json:"displayName"`
	ProfileImageURL string    `gorm:"type:varchar(512)" json:"profileImageUrl"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
