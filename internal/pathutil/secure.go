package pathutil

import (
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/apkdock/apkdock/internal/domain"
)

// SecureJoin safely joins a base directory with a relative path, preventing
// path traversal. Release asset names come from the network, so a destination
// like "../../.bashrc" must never escape the download directory.
func SecureJoin(baseDir, relativePath string) (string, error) {
	cleaned := filepath.Clean(relativePath)

	if filepath.IsAbs(cleaned) {
		return "", domain.Errorf(domain.ErrInvalidArgs, "absolute path not allowed: %q", relativePath)
	}

	// SecureJoin handles traversal, but checking explicitly gives clearer errors
	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, string(filepath.Separator)+"..") {
		return "", domain.Errorf(domain.ErrInvalidArgs, "path traversal not allowed: %q", relativePath)
	}

	safePath, err := securejoin.SecureJoin(baseDir, relativePath)
	if err != nil {
		return "", domain.Errorf(domain.ErrInvalidArgs, "invalid path %q: %v", relativePath, err)
	}

	// Use path separator to prevent /home/user matching /home/user2
	if safePath != baseDir && !strings.HasPrefix(safePath, baseDir+string(filepath.Separator)) {
		return "", domain.Errorf(domain.ErrInvalidArgs, "path traversal attempt detected: %q", relativePath)
	}

	return safePath, nil
}
