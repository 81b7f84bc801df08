package models

import "time"

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleReferee     UserRole = "referee"
	RoleSupervisor  UserRole = "supervisor"
	RoleTeamManager UserRole = "team_manager"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	AvatarKey    *string   `json:"-"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
