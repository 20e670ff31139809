package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `yaml:"name"`
	Count int      `yaml:"count"`
	Tags  []string `yaml:"tags"`
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *sample
		wantErr bool
	}{
		{name: "valid", body: "name: shoreham\ncount: 3\ntags: [a, b]\n", want: &sample{Name: "shoreham", Count: 3, Tags: []string{"a", "b"}}},
		{name: "empty document", body: "", want: &sample{}},
		{name: "malformed", body: "name: [unterminated\n", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o600))

			got, err := LoadConfig[sample](path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig[sample](filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read file")
}
