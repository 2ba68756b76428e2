package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"loadtracker/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&config.AppConfig{Environment: config.EnvProduction, LogLevel: "info"}, &buf)

	Component(log, "scheduler").Info("job fired")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "scheduler" || entry["msg"] != "job fired" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewWithOutput_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&config.AppConfig{Environment: config.EnvDevelopment, LogLevel: "warn"}, &buf)
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level = %s, want warn", log.GetLevel())
	}

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn not logged: %q", buf.String())
	}
}

func TestNewWithOutput_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&config.AppConfig{LogLevel: "chatty"}, &buf)
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %s, want info", log.GetLevel())
	}
}
