package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUserID(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"firebase style uid", "x7Gh2kLmN0pQrStUvWxYz123ab", nil},
		{"short id", "u1", nil},
		{"empty", "", ErrUserIDEmpty},
		{"too long", strings.Repeat("a", MaxUserIDLen+1), ErrUserIDTooLong},
		{"max length", strings.Repeat("a", MaxUserIDLen), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uid, err := ParseUserID(tc.raw)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, UserID(tc.raw), uid)
		})
	}
}
