package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// KeyPrefix constants for different cache types
const (
	PrefixCapabilities = "caps"
)

// GenerateKey generates a cache key from its parts.
// The key is a SHA256 hash of the parts joined by NUL.
func GenerateKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix string, parts ...string) string {
	return prefix + ":" + GenerateKey(parts...)
}

// CapabilitiesKey identifies a builder executable by path, size and
// modification time, so replacing the binary invalidates the entry
func CapabilitiesKey(executable string, size int64, modTime time.Time) string {
	return GenerateKeyWithPrefix(PrefixCapabilities,
		filepath.Clean(executable),
		strconv.FormatInt(size, 10),
		strconv.FormatInt(modTime.UnixNano(), 10),
	)
}
