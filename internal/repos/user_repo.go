package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, email, password_hash, role, verified,
  COALESCE(verification_token,'') AS verification_token,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id, username, email, password_hash, role, verified, verification_token)
	  VALUES(?,?,?,?,?,?,?)
	`, u.ID, u.Username, u.Email, u.Hash, u.Role, u.Verified, u.VerificationToken)
	return err
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyByToken consumes a verification token: the targeted update flips
// verified and clears the token in one statement, so no other user field is
// re-validated. Returns false when no unverified user owns the token.
func (r *UserRepo) VerifyByToken(token string) (bool, error) {
	res, err := r.DB.Exec(`
	  UPDATE users SET verified=1, verification_token=NULL, updated_at=CURRENT_TIMESTAMP
	  WHERE verification_token=? AND verified=0
	`, token)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListAll returns every user without the password hash column.
func (r *UserRepo) ListAll() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `
	  SELECT id, username, email, '' AS password_hash, role, verified,
	         COALESCE(verification_token,'') AS verification_token,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM users ORDER BY LOWER(email)
	`)
	return out, err
}

// PurgeUnverified deletes unverified accounts older than the retention
// window. Called periodically from main.
func (r *UserRepo) PurgeUnverified(cutoff string) (int64, error) {
	res, err := r.DB.Exec(`
	  DELETE FROM users WHERE verified=0 AND datetime(created_at) < datetime(?)
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
