package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/cwbudde/algo-partials/aggregate"
	"github.com/cwbudde/algo-partials/internal/catalog"
	"github.com/cwbudde/algo-partials/internal/config"
	"github.com/cwbudde/algo-partials/internal/logging"
	"github.com/cwbudde/algo-partials/partials"
)

type commandContext struct {
	configFlag *string
	logLevel   *string
	logFormat  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevel, logFormat *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logLevel:   logLevel,
		logFormat:  logFormat,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds a logger writing to w, applying the command-line overrides
// on top of the logging table.
func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: w,
	}
	if c.logLevel != nil && strings.TrimSpace(*c.logLevel) != "" {
		opts.Level = *c.logLevel
	}
	if c.logFormat != nil && strings.TrimSpace(*c.logFormat) != "" {
		opts.Format = *c.logFormat
	}
	return logging.New(opts)
}

// analysisFingerprint digests every setting that changes per-partial
// descriptors.
func analysisFingerprint(cfg *config.Config) (string, error) {
	return catalog.Fingerprint(struct {
		Analysis config.Analysis
		Fit      config.Fit
	}{cfg.Analysis, cfg.Fit})
}

// noteLoader reads partials files, consulting the catalog when one is open.
type noteLoader struct {
	cfg         *config.Config
	store       *catalog.Store
	fingerprint string
	logger      *slog.Logger
	opts        []partials.Option
}

func newNoteLoader(ctx context.Context, cfg *config.Config, useCatalog bool, logger *slog.Logger) (*noteLoader, error) {
	l := &noteLoader{
		cfg:    cfg,
		logger: logger,
		opts:   append(cfg.PartialsOptions(), partials.WithLogger(logger)),
	}
	if !useCatalog || !cfg.Catalog.Enabled {
		return l, nil
	}

	fp, err := analysisFingerprint(cfg)
	if err != nil {
		return nil, err
	}
	openCtx, cancel := context.WithTimeout(ctx, cfg.CatalogTimeout())
	defer cancel()
	store, err := catalog.Open(openCtx, cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	l.store, l.fingerprint = store, fp
	return l, nil
}

func (l *noteLoader) Close() error {
	return l.store.Close()
}

func (l *noteLoader) load(ctx context.Context, path string) ([]aggregate.Descriptor, error) {
	if l.store == nil {
		c, err := partials.ReadFromFile(path, l.opts...)
		if err != nil {
			return nil, err
		}
		return aggregate.Describe(c), nil
	}

	key, err := catalog.FileKey(path, l.fingerprint)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, l.cfg.CatalogTimeout())
	descs, ok, err := l.store.Lookup(opCtx, key)
	cancel()
	if err != nil {
		return nil, err
	}
	if ok {
		l.logger.Debug("catalog hit", "path", key.Path, "partials", len(descs))
		return descs, nil
	}

	c, err := partials.ReadFromFile(key.Path, l.opts...)
	if err != nil {
		return nil, err
	}
	descs = aggregate.Describe(c)

	opCtx, cancel = context.WithTimeout(ctx, l.cfg.CatalogTimeout())
	defer cancel()
	id, err := l.store.Put(opCtx, key, descs)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("catalog stored", "path", key.Path, "id", id, "partials", len(descs))
	return descs, nil
}
