// Package projection maps entities to response shapes.  Every (entity,
// shape) pair has its own struct; nothing here touches the datastore.
package projection

import (
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Date layouts used by the response shapes.
const (
	YearLayout        = "2006"
	DetailDateLayout  = "02-01-2006"
	TimestampLayout   = "02-01-2006 15:04"
	CalendarDayLayout = "2006-01-02"
)

// UserBrief is the display-only view of a user embedded in ratings and
// history entries.
type UserBrief struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func Brief(u model.User) UserBrief {
	return UserBrief{FirstName: u.FirstName, LastName: u.LastName}
}

// Profile is the self view of an account.  Credentials are never included.
type Profile struct {
	ID          uint64       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Age         *uint8       `json:"age"`
	PhoneNumber *string      `json:"phone_number"`
	Status      model.Status `json:"status"`
}

func ProfileOf(u model.User) Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Age:         u.Age,
		PhoneNumber: u.Phone,
		Status:      u.Status,
	}
}

// SessionUser is the identity part of a Session.
type SessionUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is what register and login return instead of a profile.
type Session struct {
	User         SessionUser `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func NewSession(u model.User, access, refresh string) Session {
	return Session{
		User:         SessionUser{Username: u.Username, Email: u.Email},
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

// AccessGrant is returned by the token refresh endpoint.
type AccessGrant struct {
	AccessToken string `json:"access_token"`
}
