package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account that can own storage providers and tokens.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:150"`
	PasswordHash string `gorm:"column:password_hash"`
	CreatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
