package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.log")

	logger, err := NewLogger("debug", "json", path)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("rule_id", "WL-003").Info("Rule matched")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "Rule matched", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "WL-003", entry["rule_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_TextFormat(t *testing.T) {
	logger, err := NewLogger("warn", "TEXT", "stderr")
	require.NoError(t, err)

	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestNewLogger_UnknownLevelFallsBack(t *testing.T) {
	logger, err := NewLogger("chatty", "json", "")
	require.NoError(t, err)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Equal(t, os.Stdout, logger.Out)
}

func TestNewLogger_UnwritableOutput(t *testing.T) {
	_, err := NewLogger("info", "json", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}
