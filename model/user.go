package model

import "time"

type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UUID string `gorm:"column:uuid;type:varchar(36);not null;uniqueIndex" json:"uuid"`

	Name string `gorm:"column:name;type:varchar(80);not null" json:"name"`

	Email string `gorm:"column:email;type:varchar(255);not null;unique" json:"email"`

	Password string `gorm:"column:password;type:varchar(255);not null" json:"-"`

	// Token is the opaque bearer credential issued at registration.
	Token string `gorm:"column:token;type:varchar(64);not null;uniqueIndex" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "user_account"
}
