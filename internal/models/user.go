package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered customer account
type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-" gorm:"not null"`
	ResetCode    string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// SetPassword hashes and stores the given plain text password
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plain text password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Profile returns the public view of the account
func (u *User) Profile() Profile {
	return Profile{Email: u.Email, Name: u.Name}
}

// Profile is the user data exposed to the client
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
