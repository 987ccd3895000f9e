package domain

// User is the identity record. The password hash is never serialized.
type User struct {
	ID                string `db:"id" json:"id"`
	Username          string `db:"username" json:"username"`
	Email             string `db:"email" json:"email"`
	Hash              string `db:"password_hash" json:"-"`
	Role              string `db:"role" json:"role"`
	Verified          bool   `db:"verified" json:"verified"`
	VerificationToken string `db:"verification_token" json:"-"`
	CreatedAt         string `db:"created_at" json:"createdAt"`
	UpdatedAt         string `db:"updated_at" json:"updatedAt"`
}
