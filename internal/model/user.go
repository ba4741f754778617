package model

import "time"

// Role names accepted on User.Role.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User represents a client or administrator account.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FirstName      string    `json:"firstName" gorm:"size:100;not null"`
	SecondName     string    `json:"secondName" gorm:"size:100"`
	DocumentNumber *string   `json:"documentNumber,omitempty" gorm:"uniqueIndex;size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone          string    `json:"phone" gorm:"size:30"`
	PasswordHash   string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role           string    `json:"role" gorm:"size:20;not null"`
	Active         bool      `json:"active" gorm:"not null"`
	LawyerID       *uint     `json:"idLawyer,omitempty" gorm:"index"`
	CreationDate   time.Time `json:"creationDate" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FullName joins first and second name.
func (u *User) FullName() string {
	if u.SecondName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.SecondName
}
