package auth

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// OTPChallenge is a pending login code. Only the hash of the code is
// persisted; the code itself lives in the mail (or, here, the server log).
type OTPChallenge struct {
	Email       string    `json:"email"`
	CodeHash    string    `json:"codeHash"`
	ExpiresAt   time.Time `json:"expiresAt"`
	RequestedAt time.Time `json:"requestedAt"`
	Attempts    int       `json:"attempts"`
}

func (c OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Locked reports whether the challenge has burned all its attempts.
func (c OTPChallenge) Locked(maxAttempts int) bool {
	return c.Attempts >= maxAttempts
}

// Session is the server-side record behind a signed JWT. Its ID is the
// token's jti claim; deleting the record revokes the token even while
// the signature is still valid.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
