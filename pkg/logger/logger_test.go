package logger

import (
	"testing"

	"acompanhamento-obras/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("NewLogger(%s) falhou: %v", format, err)
		}
		l.Debug("ok")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "barulhento", Format: "json"}); err == nil {
		t.Error("nível inválido deveria falhar")
	}
}

func TestBuildConfig_ProductionKeepsEveryEntry(t *testing.T) {
	zapCfg, err := buildConfig(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if zapCfg.Sampling != nil {
		t.Errorf("amostragem deveria estar desligada: %+v", zapCfg.Sampling)
	}
	if zapCfg.Encoding != "json" || zapCfg.EncoderConfig.TimeKey != "ts" {
		t.Errorf("encoder inesperado: %s / %s", zapCfg.Encoding, zapCfg.EncoderConfig.TimeKey)
	}
}
