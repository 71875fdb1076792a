package user

import (
	"context"
	"time"
)

// Repository defines the interface for user persistence operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, userID uint) error
	SetPremium(ctx context.Context, userID uint, premium bool) error
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, userID uint) error
}

// AuthTokenRepository manages single-use typed tokens.
type AuthTokenRepository interface {
	Create(ctx context.Context, token *AuthToken) error
	GetByToken(ctx context.Context, token string, tokenType TokenType) (*AuthToken, error)
	MarkUsed(ctx context.Context, tokenID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// BrowsingHistoryRepository records buyer interactions.
type BrowsingHistoryRepository interface {
	Track(ctx context.Context, event *BrowsingEvent) error
	ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*BrowsingEvent, error)
}

// RevocationStore tracks revoked session tokens until their natural
// expiry. Backed by a shared keyed store so revocation survives across
// process instances.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
