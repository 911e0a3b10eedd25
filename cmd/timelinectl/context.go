package main

import (
	"context"
	"strings"
	"sync"

	"github.com/zeusync/timeline/internal/config"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/editor"
	"github.com/zeusync/timeline/internal/prefs"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadAll(path)
	})
	return c.config, c.configErr
}

// openSession builds an editor session over the configured preference
// store. The returned func closes the store.
func (c *commandContext) openSession(ctx context.Context, adjust func(*editor.Config)) (*editor.Session, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := prefs.Open(ctx, cfg.PrefsConfig(), log.Nop())
	if err != nil {
		return nil, nil, err
	}

	ec := cfg.EditorConfig()
	if adjust != nil {
		adjust(&ec)
	}
	session, err := editor.NewSession(ec, store, nil, log.Nop())
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return session, func() { _ = store.Close() }, nil
}
