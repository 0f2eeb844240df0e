package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"qa-forum-web/internal/domain"
)

// ErrNoToken is returned by DecodeIdentity for an empty token.
var ErrNoToken = errors.New("no token")

var parser = jwt.NewParser()

// DecodeIdentity reads the id, username and role claims of a JWT without
// verifying its signature. The result is a display hint, never authorization.
func DecodeIdentity(token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	id, err := claimInt(claims["id"])
	if err != nil {
		return nil, fmt.Errorf("decode token id claim: %w", err)
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return &domain.Identity{ID: id, Username: username, Role: role}, nil
}

func claimInt(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, errors.New("missing")
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// Allow reports whether identity may open a view restricted to role. The
// comparison is exact; there is no role hierarchy.
func Allow(identity *domain.Identity, role string) bool {
	return identity != nil && identity.Role == role
}
