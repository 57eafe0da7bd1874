package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Key identifies one cached analysis.
type Key struct {
	Path        string // absolute path of the partials file
	Digest      string // hex SHA-256 of the file contents
	Fingerprint string // analysis settings fingerprint
}

// FileKey hashes the file at path and combines it with fingerprint.
func FileKey(path, fingerprint string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return Key{}, fmt.Errorf("open %s: %w", abs, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Key{}, fmt.Errorf("hash %s: %w", abs, err)
	}

	return Key{Path: abs, Digest: hex.EncodeToString(h.Sum(nil)), Fingerprint: fingerprint}, nil
}

// Fingerprint returns a stable digest of the settings that influence an
// analysis. settings must be JSON-serializable; struct field order fixes the
// encoding.
func Fingerprint(settings any) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("fingerprint settings: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
