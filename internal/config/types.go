package config

import (
	"path/filepath"
	"time"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultInterpreter  = "python3"
	DefaultLogDir       = "logs"
	DefaultHistoryLimit = 50
)

// Config describes one coordinated job. It is loaded from a JSON or YAML
// file with environment variable references expanded before parsing.
type Config struct {
	// Name is the job identifier shown in log headers and history.
	Name string `json:"name" yaml:"name"`

	// Job is the path to the job entry point, relative to the install root
	// unless absolute.
	Job string `json:"job" yaml:"job"`

	// Interpreter is the runtime binary invoked with the job path as its
	// first argument. Defaults to python3.
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`

	// Args are extra arguments appended after the job path.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Env is extra environment for the job, merged over the coordinator's
	// own environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	LogDir      string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`

	// HistoryLimit bounds history.json. Zero means the default; negative
	// keeps everything.
	HistoryLimit int `json:"history_limit,omitempty" yaml:"history_limit,omitempty"`

	// PropagateExitCode makes the coordinator's own exit code mirror the
	// job's instead of always reporting success. Off by default: the
	// scheduler sees exit 0 and failures live in the log only.
	PropagateExitCode bool `json:"propagate_exit_code,omitempty" yaml:"propagate_exit_code,omitempty"`

	// Every enables interval mode when set (e.g. "1m"). One-shot otherwise.
	Every string `json:"every,omitempty" yaml:"every,omitempty"`
}

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Interpreter == "" {
		c.Interpreter = DefaultInterpreter
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
}

// Interval parses the Every field. Returns zero when unset or invalid.
func (c *Config) Interval() time.Duration {
	if c.Every == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Every)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// Resolve joins a config-relative path against the install root. Absolute
// paths pass through untouched.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
