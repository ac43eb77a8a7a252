package common

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.Out = &buf
	l.ShowEmojis = false

	l.Info("hello %d", 1)
	l.Debug("hidden")
	l.Warning("careful")
	assert.Contains(t, buf.String(), "[INFO]  hello 1")
	assert.Contains(t, buf.String(), "[WARN]  careful")
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	l.SetSilentMode(true)
	l.Info("quiet")
	l.Error("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "[ERROR] loud")
}

func TestSetupLogger(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse([]string{"-quiet", "-verbose", "-no-emojis"}))

	l := NewLogger()
	SetupLogger(l, flags)
	assert.True(t, l.SilentMode)
	assert.Equal(t, LogLevelDebug, l.Level)
	assert.False(t, l.ShowEmojis)
	assert.Equal(t, ".env", *flags.EnvFile)
}

func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator().
		ValidateFloat("mutation", 0.5, 0, 1).
		ValidateInt("population", 10, 2, 100)
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.GetError())

	v.ValidateFloat("mutation", 1.5, 0, 1).
		ValidateFile("assets", filepath.Join(t.TempDir(), "none.csv"), false)
	require.True(t, v.HasErrors())
	assert.Len(t, v.GetErrors(), 2)
	assert.Contains(t, v.GetError().Error(), "validation errors")
}

func TestVersion(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, ProjectVersion, info.Version)
	assert.Contains(t, GetFullVersion(), ProjectVersion)
}
