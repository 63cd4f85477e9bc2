package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/fibonacci"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "FIBSEQ_"

// Defaults applied when neither a flag nor an environment variable is set.
const (
	DefaultTimeout   = time.Second
	DefaultTermDelay = 500 * time.Millisecond
	DefaultCacheTTL  = 5 * time.Minute
	DefaultAddr      = ":8080"
	DefaultRateLimit = 20.0
	DefaultProbe     = ProbeHeap
	DefaultLogLevel  = "info"
)

// Memory probe names accepted by -probe.
const (
	ProbeHeap    = "heap"
	ProbeRSS     = "rss"
	ProbePeakRSS = "peakrss"
)

// Probes lists the accepted -probe values.
var Probes = []string{ProbeHeap, ProbeRSS, ProbePeakRSS}

// Shells lists the accepted -completion values.
var Shells = []string{"bash", "zsh", "fish"}

// IndexRange is a start-end pair given as a positional argument.
type IndexRange struct {
	Start int64
	End   int64
}

// String formats r as "start-end".
func (r IndexRange) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// AppConfig holds every setting of a fibseq invocation.
type AppConfig struct {
	// Start and End bound the single range computed when no positional
	// ranges are given.
	Start int64
	End   int64
	// Ranges holds the positional start-end arguments; more than one runs
	// a batch.
	Ranges []IndexRange

	Timeout   time.Duration
	MaxMemory uint64
	TermDelay time.Duration
	Algo      string
	Probe     string

	UseCache bool
	CacheTTL time.Duration

	JSON    bool
	Quiet   bool
	Verbose bool
	NoColor bool

	Serve     bool
	TUI       bool
	Addr      string
	RateLimit float64

	LogLevel    string
	Concurrency int
	Completion  string
	Version     bool
}

// byteSize is a flag.Value accepting humanized sizes ("64MiB", "1GB").
type byteSize struct{ v *uint64 }

func (b byteSize) String() string {
	if b.v == nil || *b.v == 0 {
		return "0"
	}
	return humanize.IBytes(*b.v)
}

func (b byteSize) Set(s string) error {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", s, err)
	}
	*b.v = n
	return nil
}

// ParseConfig parses command-line arguments and environment variables into
// an AppConfig.
//
// Priority is CLI flag, then FIBSEQ_* environment variable, then default.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The arguments, without the program name.
//   - errorWriter: Where usage and parse errors are written.
//   - availableAlgos: The registered algorithm names, for validation.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, an apperrors.ConfigError
//     for invalid input.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := AppConfig{}
	fs.Int64Var(&cfg.Start, "start", 0, "First index of the range.")
	fs.Int64Var(&cfg.End, "end", 0, "Last index of the range (inclusive).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Wall-clock budget for the whole range (0 disables it).")
	fs.Var(byteSize{&cfg.MaxMemory}, "max-memory", "Memory ceiling, e.g. 64MiB (0 disables it).")
	fs.DurationVar(&cfg.TermDelay, "term-delay", DefaultTermDelay, "Latency charged to every term.")
	fs.StringVar(&cfg.Algo, "algo", fibonacci.DefaultAlgorithm, fmt.Sprintf("Term algorithm (%s).", strings.Join(availableAlgos, ", ")))
	fs.StringVar(&cfg.Probe, "probe", DefaultProbe, fmt.Sprintf("Memory probe (%s).", strings.Join(Probes, ", ")))
	fs.BoolVar(&cfg.UseCache, "cache", false, "Serve and store complete results through the range cache.")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", DefaultCacheTTL, "Idle time after which a cached range expires.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print results as JSON.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the terms.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for -quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print every term with its index.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for -verbose.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.Serve, "serve", false, "Run the HTTP API instead of a single computation.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Follow the computation on a live terminal dashboard.")
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "Listen address in -serve mode.")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", DefaultRateLimit, "Requests per second accepted in -serve mode (0 disables limiting).")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error).")
	fs.IntVar(&cfg.Concurrency, "concurrency", EstimateBatchConcurrency(), "Ranges computed at once in batch mode.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish).")
	fs.BoolVar(&cfg.Version, "version", false, "Print the version and exit.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	applyEnvOverrides(&cfg, fs)

	ranges, err := parseRanges(fs.Args())
	if err != nil {
		return AppConfig{}, err
	}
	cfg.Ranges = ranges

	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// parseRanges parses "start-end" positional arguments. A single number is
// a one-index range.
func parseRanges(args []string) ([]IndexRange, error) {
	ranges := make([]IndexRange, 0, len(args))
	for _, arg := range args {
		startStr, endStr, found := strings.Cut(arg, "-")
		if !found {
			endStr = startStr
		}
		start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid range %q: expected start-end", arg)
		}
		end, err := strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid range %q: expected start-end", arg)
		}
		ranges = append(ranges, IndexRange{Start: start, End: end})
	}
	return ranges, nil
}

// Validate checks the configuration for semantic errors. Index ranges are
// validated per request, not here.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must not be negative, got %s", c.Timeout)
	}
	if c.TermDelay < 0 {
		return apperrors.NewConfigError("term delay must not be negative, got %s", c.TermDelay)
	}
	if c.CacheTTL <= 0 {
		return apperrors.NewConfigError("cache TTL must be positive, got %s", c.CacheTTL)
	}
	if len(availableAlgos) > 0 && !slices.Contains(availableAlgos, strings.ToLower(c.Algo)) {
		return apperrors.NewConfigError("unknown algorithm %q (available: %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if !slices.Contains(Probes, strings.ToLower(c.Probe)) {
		return apperrors.NewConfigError("unknown memory probe %q (available: %s)", c.Probe, strings.Join(Probes, ", "))
	}
	if c.RateLimit < 0 {
		return apperrors.NewConfigError("rate limit must not be negative, got %g", c.RateLimit)
	}
	if c.Concurrency < 0 {
		return apperrors.NewConfigError("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Completion != "" && !slices.Contains(Shells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q (available: %s)", c.Completion, strings.Join(Shells, ", "))
	}
	if c.TUI && c.Serve {
		return apperrors.NewConfigError("-tui and -serve are mutually exclusive")
	}
	if c.JSON && c.Verbose {
		return apperrors.NewConfigError("-json and -verbose are mutually exclusive")
	}
	return nil
}
