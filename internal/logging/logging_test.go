package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithOutput(t *testing.T) {
	t.Run("filters messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithOutput("warn", &buf)

		logger.Info().Msg("hidden")
		if buf.Len() != 0 {
			t.Errorf("Expected info message to be filtered, got %q", buf.String())
		}

		logger.Warn().Msg("shown")
		if buf.Len() == 0 {
			t.Error("Expected warn message to be written")
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithOutput("verbose", &buf)

		logger.Debug().Msg("hidden")
		logger.Info().Msg("shown")

		if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
			t.Errorf("Expected exactly one line, got %q", buf.String())
		}
	})

	t.Run("component field is attached", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithOutput("info", &buf).WithComponent("snapshot")

		logger.Printf("recorded %d portfolios", 3)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Failed to decode log line: %v", err)
		}
		if entry["component"] != "snapshot" {
			t.Errorf("Expected component snapshot, got %v", entry["component"])
		}
		if entry["message"] != "recorded 3 portfolios" {
			t.Errorf("Unexpected message %v", entry["message"])
		}
	})
}
