package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	// referenceLength is the total length of a booking reference
	referenceLength = 8
	// prefixLength is taken from the service type
	prefixLength = 3
	// charset for the random part
	charset = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// GenerateReference returns an 8-character booking reference whose first
// three letters name the service, e.g. "AMB7K2QX"
func GenerateReference(serviceType string) string {
	prefix := strings.ToUpper(serviceType)
	if len(prefix) > prefixLength {
		prefix = prefix[:prefixLength]
	}

	result := make([]byte, 0, referenceLength)
	result = append(result, prefix...)

	for len(result) < referenceLength {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result = append(result, charset[num.Int64()])
	}

	return string(result)
}
