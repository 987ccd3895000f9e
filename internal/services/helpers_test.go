package services

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	"github.com/deputyJo/ironcart-backend/internal/repos"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, id, role string) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO users(id, username, email, password_hash, role, verified)
	  VALUES(?,?,?,?,?,1)
	`, id, "user"+id, id+"@example.com", "$2a$10$x", role)
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedProduct(t *testing.T, db *sqlx.DB, id, sellerID, name string, price float64, stock int) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id, name, price, stock, seller_id)
	  VALUES(?,?,?,?,?)
	`, id, name, price, stock, sellerID)
	if err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}

func productStock(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id=?`, id); err != nil {
		t.Fatalf("stock %s: %v", id, err)
	}
	return stock
}

// errStatus unwraps the HTTP status carried by a service error; 0 when the
// error is not from the taxonomy.
func errStatus(err error) int {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

type okCaptcha struct{}

func (okCaptcha) Verify(string) error { return nil }

type failCaptcha struct{}

func (failCaptcha) Verify(string) error { return errors.New("captcha failed") }

// chanMailer hands the verification token back to the test, since the send
// happens on a background goroutine.
type chanMailer struct{ tokens chan string }

func newChanMailer() *chanMailer { return &chanMailer{tokens: make(chan string, 1)} }

func (m *chanMailer) SendVerification(to, token string) error {
	m.tokens <- token
	return nil
}

func newAuthService(db *sqlx.DB, mail VerificationMailer) *AuthService {
	return &AuthService{
		Users:   repos.NewUserRepo(db),
		Tokens:  NewTokenService("access-secret", "refresh-secret"),
		Captcha: okCaptcha{},
		Mail:    mail,
	}
}
