package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

// JWTVerifier verifies HS256-signed bearer tokens issued by the identity
// provider and exposes their subject and email claims.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier builds a verifier that checks signature, expiry and issuer.
func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, errors.New("jwt issuer is required")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}, nil
}

type idpClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses and validates the credential, returning its claims.
func (v *JWTVerifier) Verify(_ context.Context, credentialToken string) (Claims, error) {
	if credentialToken == "" {
		return Claims{}, errors.New("empty credential")
	}

	claims := &idpClaims{}
	_, err := jwt.ParseWithClaims(
		credentialToken,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return Claims{}, err
	}

	if claims.Subject == "" {
		return Claims{}, errors.New("credential has no subject")
	}

	return Claims{Subject: claims.Subject, Email: claims.Email}, nil
}
