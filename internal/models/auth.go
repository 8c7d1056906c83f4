package models

import "github.com/dgrijalva/jwt-go"

// Claims is the JWT payload for authenticated admin sessions.
type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// Message is a WebSocket broadcast envelope.
type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}
