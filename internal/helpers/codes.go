package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
)

// GenerateCode returns a 6-digit verification code drawn uniformly from
// [100000, 999999] using crypto/rand. A predictable generator here would
// defeat the point of the second factor.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// GenerateOpaqueToken returns byteLength cryptographically random bytes as
// a hex string. Used for the pending-auth and password-change correlation
// tokens.
func GenerateOpaqueToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
