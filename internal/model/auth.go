package model

import "github.com/golang-jwt/jwt/v5"

// ConnectionClaims are JWT claims binding an HTTP caller to a live connection
type ConnectionClaims struct {
	ConnectionID string `json:"connectionId"`
	jwt.RegisteredClaims
}

// Welcome is sent to every new WebSocket connection
type Welcome struct {
	ConnectionID string `json:"connectionId"`
	Token        string `json:"token"`
}
