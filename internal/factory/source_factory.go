package factory

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mikey/llm-print-monitor/internal/adapters/rtsp"
	"github.com/mikey/llm-print-monitor/internal/config"
	"github.com/mikey/llm-print-monitor/internal/core"
)

// SourceFactory creates frame sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new frame source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFrameSource creates the frame source for the configured stream
func (f *SourceFactory) CreateFrameSource() (core.FrameSource, error) {
	streamCfg := f.cfg.GetStream()
	if streamCfg.URL == "" {
		return nil, errors.New("stream.url is not configured")
	}
	return rtsp.NewFrameSource(streamCfg, f.logger), nil
}
