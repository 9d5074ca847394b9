package model

import "time"

// Status is the subscription tier shared by users and movies.  A movie
// with StatusPro is only visible in detail to users with StatusPro.
type Status string

const (
	StatusSimple Status = "simple"
	StatusPro    Status = "pro"
)

// Valid reports whether s is one of the known tiers.
func (s Status) Valid() bool {
	return s == StatusSimple || s == StatusPro
}

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. Handlers never serialize this struct directly; the
// projection package defines the response shapes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – contact address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – display first name (may be empty).
//  LastName     – display last name (may be empty).
//  Age          – optional age, 15..70 when set.
//  Phone        – optional phone number in E.164 form.
//  Status       – subscription tier (pro or simple).
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Age          *uint8    // users.age (nullable)
	Phone        *string   // users.phone_number (nullable)
	Status       Status    // users.status
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsPro reports whether the user holds the pro tier.
func (u User) IsPro() bool { return u.Status == StatusPro }

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
