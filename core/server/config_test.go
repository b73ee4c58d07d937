package server_test

import (
	"testing"

	"geosync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    bool
	}{
		{"Database", server.BackendDatabase, true},
		{"File", server.BackendFile, true},
		{"Invalid", "invalid", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Backend: tt.backend}
			assert.Equal(t, tt.want, c.IsValidBackend())
		})
	}
}
