package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-r", "7", "-i", "10"}, expectPanic: false,
			expected: &Config{ServerURL: "http://127.0.0.1:9090", RequestTimeout: 7 * time.Second, HealthCheckInterval: 10 * time.Second}},
		{name: "Test2 only address", args: []string{"cmd", "-a", "http://h:1"}, expectPanic: false,
			expected: &Config{ServerURL: "http://h:1"}},
		{name: "Test3 incorrect timeout", args: []string{"cmd", "-r", "abc"}, expectPanic: true, expected: &Config{}},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
