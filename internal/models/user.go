package models

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleEmployer  Role = "EMPLOYER"
	RoleJobSeeker Role = "JOB_SEEKER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleJobSeeker:
		return true
	}
	return false
}

// All account types share one table; behavior differences are authorization
// checks on Role, not separate entities.
type User struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	Password  string `gorm:"column:password;type:text" json:"-"`
	FirstName string `gorm:"column:first_name;type:text" json:"first_name"`
	LastName  string `gorm:"column:last_name;type:text" json:"last_name"`
	Role      Role   `gorm:"column:role;type:text;index" json:"role"`

	PhoneNumber string `gorm:"column:phone_number;type:text" json:"phone_number"`
	Address     string `gorm:"column:address;type:text" json:"address"`

	// ResumePath is only meaningful for job seekers; used as the fallback
	// resume when applying without an explicit upload.
	ResumePath string `gorm:"column:resume_path;type:text" json:"resume_path"`

	Enabled   bool      `gorm:"column:enabled;default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
