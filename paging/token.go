package paging

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// TokenVersion is the envelope version written by EncodeToken. Tokens with
// any other version are rejected.
const TokenVersion = 1

// MaxTokenLength caps the size of an encoded token accepted by DecodeToken.
const MaxTokenLength = 4096

var tokenEncoding = base64.RawURLEncoding

// Codec converts page selectors to and from continuation tokens.
// Decode must either fully succeed or fail with ErrMalformedToken.
type Codec[S any] interface {
	Encode(selector S) (string, error)
	Decode(token string) (S, error)
}

type envelope struct {
	Version int             `json:"v"`
	Payload json.RawMessage `json:"p"`
}

// EncodeToken serializes payload into an opaque, URL-safe token.
func EncodeToken(payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode page token: %w", err)
	}
	data, err := json.Marshal(envelope{Version: TokenVersion, Payload: raw})
	if err != nil {
		return "", fmt.Errorf("failed to encode page token: %w", err)
	}
	return tokenEncoding.EncodeToString(data), nil
}

// DecodeToken parses a token produced by EncodeToken into payload. Unknown
// fields, trailing data and unknown versions are all malformed.
func DecodeToken(token string, payload any) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrMalformedToken)
	}
	if len(token) > MaxTokenLength {
		return fmt.Errorf("%w: token too long", ErrMalformedToken)
	}

	data, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var env envelope
	if err := strictUnmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if env.Version != TokenVersion {
		return fmt.Errorf("%w: unsupported token version %d", ErrMalformedToken, env.Version)
	}
	if len(env.Payload) == 0 || bytes.Equal(env.Payload, []byte("null")) {
		return fmt.Errorf("%w: missing payload", ErrMalformedToken)
	}
	if err := strictUnmarshal(env.Payload, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after token payload")
	}
	return nil
}
