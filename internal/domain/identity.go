package domain

import "time"

// Identity is the user a bearer token claims to represent. It is decoded
// without signature verification and only drives what the UI shows.
type Identity struct {
	ID       int64
	Username string
	Role     string
}

// Session is the durable client state behind a browser session cookie.
type Session struct {
	ID        string
	Token     string
	UserInfo  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
