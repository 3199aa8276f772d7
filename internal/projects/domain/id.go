package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewProjectID generates a time-based unique project id with a random
// suffix to avoid collision between same-millisecond creations.
func NewProjectID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%04d", time.Now().UnixMilli(), 1000+n.Int64()), nil
}
