package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("expected warn level, got %v", Logger.GetLevel())
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if _, err := os.Stat(LogPath(configDir)); err != nil {
		t.Errorf("log file not written at %s: %v", LogPath(configDir), err)
	}
}

func TestInitDebugMode(t *testing.T) {
	err := Init(Config{
		Debug:     true,
		ConfigDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", Logger.GetLevel())
	}
}

func TestInitLevelOverride(t *testing.T) {
	err := Init(Config{ConfigDir: t.TempDir(), Level: "error"})
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if Logger.GetLevel() != log.ErrorLevel {
		t.Errorf("expected error level, got %v", Logger.GetLevel())
	}

	if err := Init(Config{ConfigDir: t.TempDir(), Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	Component("recurrence").Warn("discarded")
}
