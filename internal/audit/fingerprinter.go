package audit

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives a short stable identifier for a secret token, so
// audit entries can reference a pass without storing it.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
