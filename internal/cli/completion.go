package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/fibseq/internal/config"
	apperrors "github.com/agbru/fibseq/internal/errors"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // flag name without dashes (e.g., "timeout")
	Short     string   // single-letter alias, if any
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free-form)
	ValueName string   // label for the value in zsh; empty for booleans
	IsAlgo    bool     // values come from the algorithm list
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "start", Help: "First index of the range", ValueName: "index"},
	{Long: "end", Help: "Last index of the range", ValueName: "index"},
	{Long: "timeout", Help: "Time budget for the whole range", Values: []string{"500ms", "1s", "5s", "30s"}, ValueName: "duration"},
	{Long: "max-memory", Help: "Memory ceiling", Values: []string{"64MiB", "256MiB", "1GiB"}, ValueName: "size"},
	{Long: "term-delay", Help: "Latency charged to every term", Values: []string{"0", "10ms", "100ms", "500ms"}, ValueName: "duration"},
	{Long: "algo", Help: "Term algorithm", IsAlgo: true, ValueName: "algorithm"},
	{Long: "probe", Help: "Memory probe", Values: config.Probes, ValueName: "probe"},
	{Long: "cache", Help: "Use the range cache"},
	{Long: "cache-ttl", Help: "Idle expiration of cached ranges", Values: []string{"1m", "5m", "15m"}, ValueName: "duration"},
	{Long: "json", Help: "Print results as JSON"},
	{Long: "quiet", Short: "q", Help: "Print only the terms"},
	{Long: "verbose", Short: "v", Help: "Print every term with its index"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "tui", Help: "Live terminal dashboard"},
	{Long: "serve", Help: "Run the HTTP API"},
	{Long: "addr", Help: "Listen address", Values: []string{":8080"}, ValueName: "address"},
	{Long: "rate-limit", Help: "Requests per second in serve mode", ValueName: "rps"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level"},
	{Long: "concurrency", Help: "Ranges computed at once in batch mode", ValueName: "n"},
	{Long: "completion", Help: "Generate completion script", Values: config.Shells, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - algorithms: List of available algorithm names.
//
// Returns:
//   - error: An apperrors.ConfigError if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(algorithms)
	case "zsh":
		script = zshCompletion(algorithms)
	case "fish":
		script = fishCompletion(algorithms)
	default:
		return apperrors.NewConfigError("unsupported shell %q (available: %s)", shell, strings.Join(config.Shells, ", "))
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// valuesFor returns the completion values of f.
func valuesFor(f FlagCompletion, algorithms []string) []string {
	if f.IsAlgo {
		return algorithms
	}
	return f.Values
}

func bashCompletion(algorithms []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		if vals := valuesFor(f, algorithms); len(vals) > 0 {
			fmt.Fprintf(&cases, "        -%s|--%s)\n", f.Long, f.Long)
			fmt.Fprintf(&cases, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(vals, " "))
			cases.WriteString("            return 0\n            ;;\n")
		}
	}

	return fmt.Sprintf(`# Bash completion script for fibseq
# Add this to your ~/.bashrc or ~/.bash_completion

_fibseq_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _fibseq_completions fibseq
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion(algorithms []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		suffix := ""
		if vals := valuesFor(f, algorithms); len(vals) > 0 {
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(vals, " "))
		} else if f.ValueName != "" {
			suffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		if f.Short != "" {
			args = append(args, fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'",
				f.Short, f.Long, f.Short, f.Long, f.Help, suffix))
			continue
		}
		args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Long, f.Help, suffix))
	}

	return fmt.Sprintf(`#compdef fibseq

# Zsh completion script for fibseq
# Add this to your ~/.zshrc or place in $fpath

_fibseq() {
    _arguments -s \
%s \
        '*:range (start-end):'
}

_fibseq "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion(algorithms []string) string {
	lines := []string{
		"# Fish completion script for fibseq",
		"# Add this to ~/.config/fish/completions/fibseq.fish",
		"",
		"complete -c fibseq -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c fibseq", "-o " + f.Long}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
		if vals := valuesFor(f, algorithms); len(vals) > 0 {
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(vals, " ")))
		} else if f.ValueName != "" {
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
