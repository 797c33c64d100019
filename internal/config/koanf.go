package config

import (
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const DefaultEnvFile = ".env"

// NewKoanf loads envFile when present and lets the process environment
// override it. Keys keep their UPPER_CASE names.
func NewKoanf(envFile string, log *zap.Logger) *koanf.Koanf {
	k := koanf.New(".")

	if envFile == "" {
		envFile = DefaultEnvFile
	}

	err := k.Load(file.Provider(envFile), dotenv.Parser())
	if err != nil {
		log.Debug("env file not loaded, using environment variables", zap.String("path", envFile), zap.Error(err))
	}

	err = k.Load(env.Provider("", ".", nil), nil)
	if err != nil {
		log.Fatal("failed to load environment variables", zap.Error(err))
	}

	return k
}
