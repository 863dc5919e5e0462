package io

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apkdock/apkdock/internal/domain"
)

func TestLimitedReadAll(t *testing.T) {
	data, err := LimitedReadAll(strings.NewReader("hello"), 10, "API response")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	data, err = LimitedReadAll(strings.NewReader("hello"), 5, "API response")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	_, err = LimitedReadAll(strings.NewReader("hello!"), 5, "API response")
	require.ErrorIs(t, err, domain.ErrFileSizeTooLarge)
	require.Contains(t, err.Error(), "API response")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}
