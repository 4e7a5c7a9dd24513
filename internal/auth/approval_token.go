// Package auth holds the approval-token issuer. The token gates phase 2
// behind administrative approval without forcing the applicant to
// re-authenticate; it is necessary but not sufficient, since the caller must
// also re-check live business status on each use.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookwell/onboarding-service/internal/domain/apperror"
)

const approvalTokenIssuer = "onboarding-service"

// ApprovalClaims binds an approval token to one business, user and
// application.
type ApprovalClaims struct {
	BusinessID    uuid.UUID `json:"business_id"`
	UserID        uuid.UUID `json:"user_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	jwt.RegisteredClaims
}

// ApprovalTokenIssuer mints and verifies signed, time-boxed approval tokens.
type ApprovalTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewApprovalTokenIssuer creates an issuer with the given signing secret and
// token lifetime.
func NewApprovalTokenIssuer(secret string, ttl time.Duration) *ApprovalTokenIssuer {
	return &ApprovalTokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (i *ApprovalTokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a token embedding the business, user and application ids along
// with issuance and expiry timestamps. Returns the signed token and its
// expiry.
func (i *ApprovalTokenIssuer) Issue(businessID, userID, applicationID uuid.UUID) (string, time.Time, error) {
	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)

	claims := ApprovalClaims{
		BusinessID:    businessID,
		UserID:        userID,
		ApplicationID: applicationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    approvalTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign approval token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Expired tokens map to KindTokenExpired, everything else that fails
// validation maps to KindTokenInvalid. Revocation cannot be decided here; the
// caller must re-check the referenced business's current status.
func (i *ApprovalTokenIssuer) Verify(tokenString string) (*ApprovalClaims, error) {
	claims := &ApprovalClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.KindTokenExpired, "approval token expired", err)
		}
		return nil, apperror.Wrap(apperror.KindTokenInvalid, "approval token invalid", err)
	}
	if !tok.Valid || claims.Issuer != approvalTokenIssuer {
		return nil, apperror.New(apperror.KindTokenInvalid, "approval token invalid")
	}
	if claims.BusinessID == uuid.Nil || claims.UserID == uuid.Nil || claims.ApplicationID == uuid.Nil {
		return nil, apperror.New(apperror.KindTokenInvalid, "approval token missing subject ids")
	}
	return claims, nil
}
