package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/loykin/cmdrec/internal/config"
	"github.com/loykin/cmdrec/internal/env"
	"github.com/loykin/cmdrec/internal/logger"
	"github.com/loykin/cmdrec/internal/metrics"
	"github.com/loykin/cmdrec/internal/recorder"
	"github.com/loykin/cmdrec/internal/store"
)

// command carries the I/O endpoints and the state resolved once per
// invocation by setup.
type command struct {
	in      io.Reader
	out     io.Writer
	err     io.Writer
	env     *env.Env
	tempDir func() string

	basePath  string
	recordEnv []string
	textfile  string
	logCloser io.Closer
	prevLog   *slog.Logger
}

// setup loads the config file, resolves the base path and installs the
// logger. Flags override the config file.
func (c *command) setup(f GlobalFlags) error {
	fc, err := config.Load(f.ConfigPath)
	if err != nil {
		return err
	}
	logCfg, err := fc.LoggerConfig()
	if err != nil {
		return err
	}
	if f.LogLevel != "" {
		if logCfg.Slog.Level, err = logger.ParseLevel(f.LogLevel); err != nil {
			return err
		}
	}
	if f.LogFormat != "" {
		if logCfg.Slog.Format, err = logger.ParseFormat(f.LogFormat); err != nil {
			return err
		}
	}
	if f.LogFile != "" {
		logCfg.File.Path = f.LogFile
	}
	log, closer := logCfg.NewSlogger(c.err)
	c.logCloser = closer
	c.prevLog = slog.Default()
	slog.SetDefault(log)

	if c.recordEnv, err = fc.RecordEnv(); err != nil {
		return err
	}
	c.basePath = config.ResolveBasePath(f.BasePath, fc.BasePath, c.env, c.tempDir)

	c.textfile = f.MetricsTextfile
	if c.textfile == "" {
		c.textfile = fc.MetricsTextfile()
	}
	if c.textfile != "" {
		if err := metrics.EnableTextfile(); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	slog.Debug("base path resolved", slog.String("base_path", c.basePath))
	return nil
}

// finish flushes metrics and releases the logger. Metrics are written even
// when the operation failed.
func (c *command) finish() {
	if c.textfile != "" {
		if err := metrics.WriteTextfile(c.textfile); err != nil {
			slog.Warn("write metrics textfile", slog.String("path", c.textfile), slog.Any("error", err))
		}
	}
	if c.prevLog != nil {
		slog.SetDefault(c.prevLog)
		c.prevLog = nil
	}
	if c.logCloser != nil {
		_ = c.logCloser.Close()
		c.logCloser = nil
	}
}

// Record runs argv and prints the new record ID.
func (c *command) Record(argv []string, f RecordFlags) error {
	opts := recorder.Options{WorkDir: f.WorkDir, Stdin: c.in}
	extra := append(append([]string{}, c.recordEnv...), f.EnvKVs...)
	if len(extra) > 0 {
		opts.Env = c.env.Merge(extra)
	}
	id, err := recorder.New(c.basePath).Record(argv, opts)
	if err != nil {
		metrics.IncError("record")
		return err
	}
	_, err = fmt.Fprintln(c.out, id)
	return err
}

func (c *command) Status(id string) error {
	return store.New(c.basePath).PrintStatus(id, c.out)
}

func (c *command) Stdout(id string) error {
	return store.New(c.basePath).Stdout(id, c.out)
}

func (c *command) Stderr(id string) error {
	return store.New(c.basePath).Stderr(id, c.err)
}

func (c *command) Output(id string) error {
	return store.New(c.basePath).Output(id, c.out, c.err)
}

func (c *command) Delete(id string) error {
	return store.New(c.basePath).Delete(id)
}

func (c *command) Expire() error {
	_, err := store.New(c.basePath).Expire()
	return err
}
