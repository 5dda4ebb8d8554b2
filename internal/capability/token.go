// Package capability issues and verifies the signed single-use tokens embedded
// in approval links. A token is bound to one transaction and one action; the
// single-use part is enforced by the store, which records every issued jti.
package capability

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hance08/txgate/internal/constants"
)

const issuerName = "txgate"

var (
	ErrInvalidToken = errors.New("invalid action token")
	ErrTokenExpired = errors.New("action token has expired")
)

// Claims carries the action a link performs and, in Subject, the internal
// transaction id it is bound to.
type Claims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// TransactionID returns the internal id the token was issued for.
func (c *Claims) TransactionID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad subject %q: %w", c.Subject, ErrInvalidToken)
	}
	return id, nil
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("capability secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("capability ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a new token for action on the given transaction.
func (i *Issuer) Issue(transactionID int64, action string, now time.Time) (string, *Claims, error) {
	if !validAction(action) {
		return "", nil, fmt.Errorf("unknown action %q", action)
	}

	claims := &Claims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuerName,
			Subject:   strconv.FormatInt(transactionID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign action token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature, algorithm, issuer and expiry as of now.
func (i *Issuer) Verify(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !validAction(claims.Action) || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if _, err := claims.TransactionID(); err != nil {
		return nil, err
	}
	return claims, nil
}

func validAction(action string) bool {
	return action == constants.ActionApprove || action == constants.ActionReject
}
