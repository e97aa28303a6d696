package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes one command-line flag for completion scripts.
type FlagCompletion struct {
	Long   string   // without "--"
	Short  string   // without "-"
	Help   string
	Values []string // fixed suggestions; nil for booleans
	IsFile bool
	IsAlgo bool // suggestions come from the algorithm list
}

// takesValue reports whether the flag consumes an argument.
func (f FlagCompletion) takesValue() bool {
	return f.Values != nil || f.IsFile || f.IsAlgo
}

// flagRegistry lists every flag accepted by factcalc. All generators read it.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Short: "n", Help: "Factorial argument N", Values: []string{"10", "20", "100", "1000"}},
	{Long: "workers", Short: "t", Help: "Number of concurrent workers", Values: []string{"1", "2", "4", "8", "16"}},
	{Long: "algo", Help: "Strategy to use", IsAlgo: true},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "10m"}},
	{Long: "verbose", Short: "v", Help: "Print the full result"},
	{Long: "details", Short: "d", Help: "Show timing and memory details"},
	{Long: "quiet", Short: "q", Help: "Print only the result"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}},
	{Long: "no-color", Help: "Disable colors"},
	{Long: "interactive", Short: "i", Help: "Interactive session"},
	{Long: "prompt", Help: "Read N and T from standard input"},
	{Long: "tui", Help: "Terminal dashboard"},
	{Long: "server", Help: "HTTP listen address", Values: []string{":8080"}},
	{Long: "calibrate", Help: "Benchmark worker counts"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}},
}

// GenerateCompletion writes a completion script for shell to out.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, algorithms)
	case "zsh":
		return generateZshCompletion(out, algorithms)
	case "fish":
		return generateFishCompletion(out, algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

func (f FlagCompletion) names() []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func (f FlagCompletion) suggestions(algorithms []string) []string {
	if f.IsAlgo {
		return append([]string{"all"}, algorithms...)
	}
	return f.Values
}

func generateBashCompletion(out io.Writer, algorithms []string) error {
	var opts []string
	for _, f := range flagRegistry {
		opts = append(opts, f.names()...)
	}

	var b strings.Builder
	b.WriteString("# bash completion for factcalc\n")
	b.WriteString("_factcalc() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range flagRegistry {
		if !f.takesValue() {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", strings.Join(f.names(), "|"))
		if f.IsFile {
			b.WriteString("            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n")
		} else {
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(f.suggestions(algorithms), " "))
		}
		b.WriteString("            return 0\n            ;;\n")
	}
	b.WriteString("    esac\n\n")
	fmt.Fprintf(&b, "    COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(opts, " "))
	b.WriteString("}\n")
	b.WriteString("complete -F _factcalc factcalc\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func generateZshCompletion(out io.Writer, algorithms []string) error {
	var b strings.Builder
	b.WriteString("#compdef factcalc\n\n")
	b.WriteString("_factcalc() {\n")
	b.WriteString("    _arguments \\\n")
	for _, f := range flagRegistry {
		action := ""
		switch {
		case f.IsFile:
			action = ":file:_files"
		case f.takesValue():
			action = fmt.Sprintf(":value:(%s)", strings.Join(f.suggestions(algorithms), " "))
		}
		names := f.names()
		spec := names[0]
		if len(names) > 1 {
			spec = fmt.Sprintf("{%s}", strings.Join(names, ","))
		}
		fmt.Fprintf(&b, "        %s'[%s]%s' \\\n", spec, f.Help, action)
	}
	b.WriteString("        '*:N and T:'\n")
	b.WriteString("}\n\n")
	b.WriteString("_factcalc \"$@\"\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func generateFishCompletion(out io.Writer, algorithms []string) error {
	var b strings.Builder
	b.WriteString("# fish completion for factcalc\n")
	for _, f := range flagRegistry {
		b.WriteString("complete -c factcalc")
		if f.Long != "" {
			fmt.Fprintf(&b, " -l %s", f.Long)
		}
		if f.Short != "" {
			fmt.Fprintf(&b, " -s %s", f.Short)
		}
		switch {
		case f.IsFile:
			b.WriteString(" -r -F")
		case f.takesValue():
			fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.suggestions(algorithms), " "))
		}
		fmt.Fprintf(&b, " -d '%s'\n", f.Help)
	}

	_, err := io.WriteString(out, b.String())
	return err
}
