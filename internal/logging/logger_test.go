package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newConsoleLogger("test", &buf)

	l.Debug("скрытое сообщение")
	l.Info("видимое %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "скрытое", "DEBUG не должен попадать в консоль по умолчанию")
	assert.Contains(t, out, "[INFO] [test] видимое 42")
}

func TestLogger_FileOutput(t *testing.T) {
	dir := t.TempDir()
	SetLogDir(dir)
	defer SetLogDir("")

	l, err := NewLogger("filetest")
	require.NoError(t, err)
	l.Debug("в файл")
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "filetest_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [filetest] в файл")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerManager_ReusesComponentLogger(t *testing.T) {
	lm := GetLoggerManager()
	a := lm.MustGetLogger("reuse")
	b := lm.MustGetLogger("reuse")
	assert.Same(t, a, b)
	assert.Contains(t, lm.ListComponents(), "reuse")
	assert.NoError(t, lm.SetLogLevel("reuse", WARN, WARN))
	assert.Error(t, lm.SetLogLevel("missing", WARN, WARN))
}

func TestComponentShortcuts(t *testing.T) {
	assert.Same(t, GetComponentLogger("generator"), GetGeneratorLogger())
	assert.Same(t, GetComponentLogger("sampling"), GetSamplingLogger())
	assert.Same(t, GetComponentLogger("storage"), GetStorageLogger())
	assert.Same(t, GetComponentLogger("api"), GetAPILogger())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Info("ничего") })
}

func TestLoggerManager_SetConsoleLevel(t *testing.T) {
	lm := &LoggerManager{loggers: make(map[string]*Logger), consoleLevel: INFO}
	existing := lm.MustGetLogger("existing")

	lm.SetConsoleLevel(WARN)
	assert.Equal(t, WARN, existing.minConsoleLevel)
	assert.Equal(t, WARN, lm.MustGetLogger("fresh").minConsoleLevel)
}
