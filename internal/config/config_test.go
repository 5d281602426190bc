package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "utf-8", c.Encoding)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, ",", c.Delimiter)
	assert.True(t, c.Trim)
}

func TestFillDefaults(t *testing.T) {
	c := &Config{Encoding: "gbk"}
	c.FillDefaults()
	assert.Equal(t, "gbk", c.Encoding)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, ",", c.Delimiter)
}

func TestDelimiterRune(t *testing.T) {
	r, err := (&Config{Delimiter: ";"}).DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, ';', r)

	_, err = (&Config{Delimiter: ";;"}).DelimiterRune()
	assert.Error(t, err)
	_, err = (&Config{Delimiter: ""}).DelimiterRune()
	assert.Error(t, err)
}

func TestNewViper_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbf.yaml")
	content := "encoding: gbk\ndelimiter: \";\"\ntrim: false\nlog-level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v, err := NewViper(path)
	require.NoError(t, err)
	c := Load(v)
	assert.Equal(t, "gbk", c.Encoding)
	assert.Equal(t, ";", c.Delimiter)
	assert.False(t, c.Trim)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
}

func TestNewViper_Environment(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DBF_ENCODING", "cp1252")
	t.Setenv("DBF_LOG_FORMAT", "json")

	v, err := NewViper("")
	require.NoError(t, err)
	c := Load(v)
	assert.Equal(t, "cp1252", c.Encoding)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, ",", c.Delimiter)
}

func TestNewViper_MissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
