package io

import (
	"fmt"
	"io"

	"github.com/apkdock/apkdock/internal/domain"
)

// LimitedReadAll reads from r up to maxBytes.
// If the reader contains more than maxBytes, it returns an ErrFileSizeTooLarge error.
func LimitedReadAll(r io.Reader, maxBytes int64, context string) ([]byte, error) {
	// Read one extra byte to detect overflow
	limitedReader := io.LimitReader(r, maxBytes+1)

	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > maxBytes {
		return nil, domain.Errorf(domain.ErrFileSizeTooLarge,
			"%s exceeds maximum size of %d bytes", context, maxBytes)
	}

	return data, nil
}

// FormatSize returns a human-readable size string.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
