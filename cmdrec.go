// Package cmdrec records the exit status and output streams of a command
// under a generated ID and reads them back later.
package cmdrec

import (
	"io"

	"github.com/loykin/cmdrec/internal/config"
	"github.com/loykin/cmdrec/internal/env"
	"github.com/loykin/cmdrec/internal/metrics"
	"github.com/loykin/cmdrec/internal/recorder"
	"github.com/loykin/cmdrec/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.

type Options = recorder.Options

// BasePathEnv names the environment variable overriding the default base path.
const BasePathEnv = config.BasePathEnv

// ErrEmptyCommand is returned by Record when argv is empty.
var ErrEmptyCommand = recorder.ErrEmptyCommand

// DefaultBasePath returns $CMDREC_BASE_PATH when set, else <tmp>/cmdrec.
func DefaultBasePath() string {
	e := env.New()
	e.FromOS()
	return config.ResolveBasePath("", "", e, nil)
}

// Record runs argv, stores its status and output under basePath and returns
// the record ID.
func Record(basePath string, argv []string) (string, error) {
	return RecordWith(basePath, argv, Options{})
}

func RecordWith(basePath string, argv []string, opts Options) (string, error) {
	return recorder.New(basePath).Record(argv, opts)
}

func Delete(basePath, id string) error { return store.New(basePath).Delete(id) }

// Expire removes every record under basePath and returns how many were removed.
func Expire(basePath string) (int, error) { return store.New(basePath).Expire() }

func Status(basePath, id string) (string, error) { return store.New(basePath).Status(id) }

func Stdout(basePath, id string, w io.Writer) error { return store.New(basePath).Stdout(id, w) }

func Stderr(basePath, id string, w io.Writer) error { return store.New(basePath).Stderr(id, w) }

func Output(basePath, id string, out, errOut io.Writer) error {
	return store.New(basePath).Output(id, out, errOut)
}

// RegisterMetrics registers the cmdrec collectors with r. Each registerer
// exports them; repeating a call with the same one is a no-op.
func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }

// RegisterMetricsDefault registers the collectors with the default registry.
func RegisterMetricsDefault() error { return metrics.Register(prometheus.DefaultRegisterer) }
