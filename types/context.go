package types

import (
	"github.com/pablor21/magnet/config"
	"github.com/pablor21/magnet/logger"
)

// ProcessContext carries what every scanning step needs.
type ProcessContext struct {
	Config     *config.Config
	Logger     logger.Logger
	ModulePath string // main module of the scan; only its packages get generated files
}

// NewProcessContext returns a context over cfg. A nil cfg means the defaults.
func NewProcessContext(cfg *config.Config, log logger.Logger) *ProcessContext {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if log == nil {
		lc := logger.DefaultConfig()
		lc.Level = cfg.Level()
		if logger.IsTestEnvironment() {
			lc = logger.TestConfig()
		}
		log = logger.NewLogger(lc)
	}
	return &ProcessContext{Config: cfg, Logger: log}
}
