package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"acompanhamento-obras/config"
)

// NewLogger cria o zap.Logger conforme nível e formato configurados.
// Formato "console" usa saída colorida de desenvolvimento; qualquer outro, JSON.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zapCfg, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar logger: %w", err)
	}

	return logger.With(zap.String("app", "acompanhamento-obras")), nil
}

func buildConfig(cfg *config.LogConfig) (zap.Config, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// falhas de auditoria só ficam registradas no log; nada pode ser descartado
		zapCfg.Sampling = nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zapCfg, fmt.Errorf("nível de log inválido %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg, nil
}
