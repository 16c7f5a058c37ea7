// Package cache stores conversion results so repeated batch runs over the
// same files skip the expensive byte-extraction step. Entries are keyed by
// source path plus size and modification time, so any change to the file
// invalidates its entry.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the conversion-result cache contract.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a source file's identity. Size and mtime are
// part of the hash so stale conversions are never served.
func Key(path string, size int64, mtime time.Time) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, size, mtime.UnixNano())))
	return "docfuse:v1:" + hex.EncodeToString(hash[:])
}
