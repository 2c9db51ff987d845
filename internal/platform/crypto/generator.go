// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const documentIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateDocumentID returns an alphanumeric id of length n, drawn uniformly
// from [A-Za-z0-9] like Firestore auto ids.
func GenerateDocumentID(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("document id length must be positive, got %d", n)
	}
	max := big.NewInt(int64(len(documentIDAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = documentIDAlphabet[idx.Int64()]
	}
	return string(out), nil
}
