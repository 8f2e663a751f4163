package models

// User is a bare credential record. There is no session or token machinery around it; the
// simulation only needs a stable user id to key progress on.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}
