package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Output(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"release", "test-version-1.0.0", "healthdoc version test-version-1.0.0\n"},
		{"dev build", "dev", "healthdoc version dev\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := version
			version = tt.version
			defer func() { version = original }()

			out, err := execute(t, "version")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVersionCmd_Verbose(t *testing.T) {
	out, err := execute(t, "version", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "healthdoc version")
	assert.Contains(t, out, runtime.Version())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("2.0.0")
	assert.Equal(t, "2.0.0", version)
}
