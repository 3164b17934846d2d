// Package cryptox implements the password-based key derivation used to store
// and verify account credentials.
//
// Digests are produced with PBKDF2 over HMAC-SHA-256. Salts and digests are
// standard base64 strings so they can be kept verbatim in the JSON account
// directory.
package cryptox

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random bytes in a freshly generated salt.
	SaltSize = 16

	// DefaultIterations is the PBKDF2 cost applied to new accounts.
	DefaultIterations = 100_000

	// DefaultKeyLen is the digest length in bytes.
	DefaultKeyLen = 32
)

// GenerateSalt returns SaltSize random bytes encoded as standard base64.
func GenerateSalt() string {
	return base64.StdEncoding.EncodeToString(common.GenerateRandByteArray(SaltSize))
}

// DeriveKey derives a keyLen-byte digest from password and the base64 salt
// using iterations rounds of PBKDF2-HMAC-SHA256. The digest is returned
// base64 encoded.
//
// Non-positive iterations or keyLen, or a salt that is not valid base64,
// yield common.ErrInvalidParameter.
func DeriveKey(password []byte, salt string, iterations, keyLen int) (string, error) {
	if iterations <= 0 {
		return "", fmt.Errorf("%w: iterations must be positive, got %d", common.ErrInvalidParameter, iterations)
	}
	if keyLen <= 0 {
		return "", fmt.Errorf("%w: key length must be positive, got %d", common.ErrInvalidParameter, keyLen)
	}

	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: salt is not base64: %v", common.ErrInvalidParameter, err)
	}

	key := pbkdf2.Key(password, rawSalt, iterations, keyLen, sha256.New)
	defer common.WipeByteArray(key)

	return base64.StdEncoding.EncodeToString(key), nil
}

// DeriveResult carries the outcome of an asynchronous derivation.
type DeriveResult struct {
	Digest string
	Err    error
}

// DeriveKeyAsync runs DeriveKey on its own goroutine and delivers the result
// on the returned channel, which is buffered so the worker never blocks.
//
// The derivation itself cannot be interrupted; cancelling ctx only lets the
// caller stop waiting (see Await). The password slice is copied so the caller
// may wipe its own copy right away.
func DeriveKeyAsync(password []byte, salt string, iterations, keyLen int) <-chan DeriveResult {
	pw := append([]byte(nil), password...)
	ch := make(chan DeriveResult, 1)

	go func() {
		defer common.WipeByteArray(pw)
		digest, err := DeriveKey(pw, salt, iterations, keyLen)
		ch <- DeriveResult{Digest: digest, Err: err}
	}()

	return ch
}

// Await waits for an asynchronous derivation or for ctx to be done,
// whichever comes first.
func Await(ctx context.Context, ch <-chan DeriveResult) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.Digest, res.Err
	}
}

// VerifyKey reports whether candidate equals stored. The comparison takes
// time independent of where the digests first differ.
func VerifyKey(candidate, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
