package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRow is a user record as stored, including the password hash so the
// Logic layer can verify credentials. It must never be serialized to a
// client; use ClientUser for that.
type UserRow struct {
	ID           int
	AccountID    int
	Email        string
	PasswordHash string
	Balance      float32
	Delta        float32
	CreatedAt    time.Time
}

// SessionRow is a session record. The ID doubles as the bearer token.
type SessionRow struct {
	ID        uuid.UUID
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// StockRow is a row of the read-only stocks listing.
type StockRow struct {
	ID           int32     `json:"id"`
	Abbreviation string    `json:"abbreviation"`
	Company      string    `json:"company"`
	Since        time.Time `json:"since"`
	Price        float32   `json:"price"`
	Delta        float32   `json:"delta"`
	LastUpdate   time.Time `json:"last_update"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClientUser is the only user representation ever sent to a client.
// It carries no credential material and no account linkage.
type ClientUser struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Balance   float32   `json:"balance"`
	Delta     float32   `json:"delta"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientUserFrom projects a stored user into its client-safe form.
func ClientUserFrom(u *UserRow) *ClientUser {
	return &ClientUser{
		ID:        u.ID,
		Email:     u.Email,
		Balance:   u.Balance,
		Delta:     u.Delta,
		CreatedAt: u.CreatedAt,
	}
}

// AuthCredentials is the request body for register and login.
type AuthCredentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
