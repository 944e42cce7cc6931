package token

import (
	"fmt"
	"time"

	"github.com/cameronsaddress/snapchef-social/config"

	"github.com/golang-jwt/jwt/v4"
)

// Generate signs an access token carrying the user id. The embedding
// presentation layer issues these after platform authentication, which is out
// of scope here.
func Generate(userID string, cfg config.AuthConfigs) (string, error) {
	expirationTime := time.Now().Add(cfg.TokenExpiration)
	claims := &jwt.RegisteredClaims{
		ID:        userID,
		ExpiresAt: jwt.NewNumericDate(expirationTime),
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := jwtToken.SignedString([]byte(cfg.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("can not signed jwt: %w", err)
	}

	return token, nil
}

// Verify returns the user id carried by the token.
func Verify(token string, cfg config.AuthConfigs) (string, error) {
	keyFunc := func(jwtToken *jwt.Token) (interface{}, error) {
		if _, ok := jwtToken.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", fmt.Errorf("token is not valid")
		}
		return []byte(cfg.TokenSecret), nil
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, keyFunc); err != nil {
		return "", err
	}

	return claims.ID, nil
}
