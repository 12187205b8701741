package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("SHIFTRECON_TEST_DIR", "/var/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tilde prefix", in: "~/.local/share/shiftrecon.db", want: filepath.Join(home, ".local/share/shiftrecon.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$SHIFTRECON_TEST_DIR/shiftrecon.db", want: "/var/data/shiftrecon.db"},
		{name: "absolute unchanged", in: "/srv/shiftrecon.db", want: "/srv/shiftrecon.db"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
