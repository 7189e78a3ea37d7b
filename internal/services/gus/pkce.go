package gus

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// verifierByteLength yields a 43-character verifier after base64url encoding,
// the minimum RFC 7636 allows. Anything in [32,96] bytes stays inside the
// [43,128] character window.
const verifierByteLength = 32

// GenerateVerifier produces a cryptographically random PKCE code verifier:
// URL-safe base64 without padding, 43-128 characters.
func GenerateVerifier() (string, error) {
	buf := make([]byte, verifierByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateChallenge derives the S256 code challenge from a verifier:
// base64url(SHA256(verifier)), no padding. Pure function.
func GenerateChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateState produces the CSRF nonce correlating the authorization
// redirect with the flow that initiated it. Hex encoding for maximum
// compatibility in query strings.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// handshake holds the ephemeral PKCE state for one login attempt. It is
// created when the flow starts and never persisted or reused.
type handshake struct {
	verifier  string
	challenge string
	state     string
}

func newHandshake() (*handshake, error) {
	verifier, err := GenerateVerifier()
	if err != nil {
		return nil, err
	}
	state, err := GenerateState()
	if err != nil {
		return nil, err
	}
	return &handshake{
		verifier:  verifier,
		challenge: GenerateChallenge(verifier),
		state:     state,
	}, nil
}
