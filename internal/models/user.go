// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered account. Username is unique; email is restricted to the
// institutional domain at registration time.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;index;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
