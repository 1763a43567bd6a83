package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// VectorKey derives a cache key from the model and the exact input text.
func VectorKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return model + ":" + hex.EncodeToString(sum[:])
}
