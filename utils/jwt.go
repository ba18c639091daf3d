package utils

import (
	"errors"
	"time"

	"homestay/config"

	"github.com/golang-jwt/jwt"
)

// Claims is the identity carried by a bearer token.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Role    string
}

const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed HS256 token for the given identity.
// The token expires after the specified duration.
func GenerateToken(claims Claims, duration time.Duration) (string, error) {
	if len(secretKey()) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	mc := jwt.MapClaims{
		"sub":   claims.Subject,
		"email": claims.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	if claims.Name != "" {
		mc["name"] = claims.Name
	}
	if claims.Role != "" {
		mc["role"] = claims.Role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ParseClaims validates the token and extracts the caller identity.
// The display name falls back to user_metadata.full_name as issued by the hosted auth provider.
func ParseClaims(tokenString string) (*Claims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}

	claims := &Claims{Subject: sub}
	claims.Email, _ = mc["email"].(string)
	claims.Role, _ = mc["role"].(string)
	claims.Name, _ = mc["name"].(string)
	if claims.Name == "" {
		if meta, ok := mc["user_metadata"].(map[string]interface{}); ok {
			claims.Name, _ = meta["full_name"].(string)
		}
	}
	return claims, nil
}
