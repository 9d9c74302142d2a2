package session

import "time"

type Role string

const (
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type Session struct {
	Role        Role           `json:"role"`
	SubjectID   string         `json:"subjectId"`
	DisplayName string         `json:"displayName"`
	Token       string         `json:"token"`
	Claims      map[string]any `json:"claims,omitempty"`
	IssuedAt    time.Time      `json:"issuedAt"`
}

// LoginInput is the one normalized credential shape sent to the verifier.
// Which fields are mandatory varies per role: manager and employee logins
// carry a secondary id (employee number), hr and admin do not.
type LoginInput struct {
	Role        Role   `json:"role"`
	Identifier  string `json:"identifier"`
	SecondaryID string `json:"secondaryId"`
	Secret      string `json:"secret"`
}
