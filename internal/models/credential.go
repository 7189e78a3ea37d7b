package models

import "time"

// Credential represents a cached GUS access token. CollectedAt is set once at
// the moment the token was obtained and never mutated afterward; a fresh
// write fully replaces the record.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	InstanceHost string    `json:"instance_host"`
	CollectedAt  time.Time `json:"collected_at"`
}

// TokenPayload is the result of a successful authorization code exchange.
type TokenPayload struct {
	AccessToken  string `json:"access_token"`
	InstanceURL  string `json:"instance_url"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
