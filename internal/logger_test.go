package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := logger
	logger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		logger = previous
		SetLogLevel(LogLevelWarn)
	})
	return &buf
}

func TestLogLevelFiltering(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel(LogLevelWarn)

	LogError("boom")
	LogWarn("careful")
	LogInfo("hello")
	LogDebug("noise")

	out := buf.String()
	if !strings.Contains(out, "[ERROR] boom") || !strings.Contains(out, "[WARN] careful") {
		t.Errorf("missing error/warn output: %q", out)
	}
	if strings.Contains(out, "[INFO]") || strings.Contains(out, "[DEBUG]") {
		t.Errorf("info/debug leaked at warn level: %q", out)
	}
}

func TestSetVerbose(t *testing.T) {
	buf := captureLog(t)

	SetVerbose(true)
	LogDebug("trace %d", 7)
	if !strings.Contains(buf.String(), "[DEBUG] trace 7") {
		t.Errorf("debug output missing after SetVerbose(true): %q", buf.String())
	}

	buf.Reset()
	SetVerbose(false)
	LogDebug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output present after SetVerbose(false): %q", buf.String())
	}
}
