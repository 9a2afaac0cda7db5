// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random hex string of the
// given byte length.
//
// It is used for one-time confirmation codes: the value must be unguessable
// and is compared by exact match only, so no further derivation is applied.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
