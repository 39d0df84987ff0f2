// Package signing implements the Ed25519 JWK key pairs users and backends
// sign payloads with. Private keys never reach the server; only the public
// JWK is stored, and its x coordinate doubles as the API token key.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// PublicJWK is an Ed25519 public key in JWK form.
type PublicJWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
}

// PrivateJWK is an Ed25519 private key in JWK form.
type PrivateJWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	D   string `json:"d"`
}

// NewKeyPair generates a fresh Ed25519 key pair under the given key id.
func NewKeyPair(kid string) (*PrivateJWK, *PublicJWK, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	x := base64.RawURLEncoding.EncodeToString(pub)
	d := base64.RawURLEncoding.EncodeToString(priv.Seed())

	private := &PrivateJWK{Kty: "OKP", Crv: "Ed25519", Kid: kid, X: x, D: d}
	public := &PublicJWK{Kty: "OKP", Crv: "Ed25519", Kid: kid, X: x}
	return private, public, nil
}

// Key reconstructs the ed25519 private key from the JWK.
func (p *PrivateJWK) Key() (ed25519.PrivateKey, error) {
	seed, err := base64.RawURLEncoding.DecodeString(p.D)
	if err != nil {
		return nil, fmt.Errorf("invalid private JWK: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid private JWK: bad seed length %d", len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// Public returns the public half of the key pair.
func (p *PrivateJWK) Public() *PublicJWK {
	return &PublicJWK{Kty: p.Kty, Crv: p.Crv, Kid: p.Kid, X: p.X}
}

// Key reconstructs the ed25519 public key from the JWK.
func (p *PublicJWK) Key() (ed25519.PublicKey, error) {
	x, err := base64.RawURLEncoding.DecodeString(p.X)
	if err != nil {
		return nil, fmt.Errorf("invalid public JWK: %w", err)
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public JWK: bad key length %d", len(x))
	}
	return ed25519.PublicKey(x), nil
}

// Sign wraps the payload in a compact JWS signed with the private key.
func Sign(priv *PrivateJWK, payload map[string]any) (string, error) {
	key, err := priv.Key()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims(payload))
	token.Header["kid"] = priv.Kid

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}
	return signed, nil
}

// Verify checks a compact JWS against the public key and returns its
// payload.
func Verify(pub *PublicJWK, signed string) (map[string]any, error) {
	key, err := pub.Key()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	return map[string]any(claims), nil
}
