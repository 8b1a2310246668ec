package websocket

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ServeWS adapts a fiber websocket connection into the gateway. The
// handshake token is optional: a connection without a verifiable
// identity stays anonymous, keeps receiving broadcasts, and is never
// registered for pushes.
func (g *Gateway) ServeWS(secret string) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		g.Handle(c, identityFromToken(c.Query("token"), secret))
	}
}

// identityFromToken verifies the handshake JWT and extracts the user
// identity from its user_id claim. Any failure yields an anonymous
// connection rather than an error.
func identityFromToken(tokenString, secret string) *uuid.UUID {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		log.Printf("Realtime handshake rejected: %v", err)
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	raw, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		log.Printf("Realtime handshake rejected: invalid user_id claim %q", raw)
		return nil
	}
	return &userID
}
