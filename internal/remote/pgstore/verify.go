package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"hrdash/internal/remote"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks credentials against a
// dashboard_users(subject_id, role, email, employee_no, display_name,
// password_hash) table and mints the session token itself.
type Verifier struct {
	db     DB
	secret string
	ttl    time.Duration
}

func NewVerifier(db DB, jwtSecret string) *Verifier {
	return &Verifier{db: db, secret: jwtSecret, ttl: 8 * time.Hour}
}

func (v *Verifier) Verify(ctx context.Context, req remote.VerifyRequest) (remote.SessionPayload, error) {
	var subjectID, displayName, hash string
	err := v.db.QueryRow(ctx, `
		SELECT subject_id, display_name, password_hash
		FROM dashboard_users
		WHERE email = $1 AND role = $2
		  AND ($3 = '' OR employee_no = $3)
	`, req.Identifier, req.Role, req.SecondaryID).Scan(&subjectID, &displayName, &hash)
	if err != nil {
		// No such user reads the same as a wrong secret to the caller.
		return remote.SessionPayload{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Secret)); err != nil {
		return remote.SessionPayload{}, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  subjectID,
		"name": displayName,
		"role": req.Role,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(v.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(v.secret))
	if err != nil {
		return remote.SessionPayload{}, fmt.Errorf("issue token: %w", err)
	}

	return remote.SessionPayload{
		Token:       token,
		SubjectID:   subjectID,
		DisplayName: displayName,
	}, nil
}

// SignOut has nothing to revoke in direct-database mode; tokens simply
// expire.
func (v *Verifier) SignOut(ctx context.Context, token string) error {
	return nil
}
