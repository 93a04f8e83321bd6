// Package patterns builds anchored regex patterns for shell command
// wrappers (timeout, env, nice, ...) that are stripped from command
// segments before rule patterns are applied.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern holds a compiled regex and the wrapper spec it was built from.
type Pattern struct {
	Regex *regexp.Regexp
	Name  string
	Spec  string // original wrapper spec string
}

// BuildFlagPattern converts a flag specification to a regex fragment.
// "-f" becomes "(-f\s+)?"
// "-f <arg>" becomes "(-f\s*\S+\s+)?" (allows -f10 or -f 10)
// "<arg>" becomes "(\S+\s+)?" (positional argument)
// "" (empty) becomes ""
func BuildFlagPattern(flag string) string {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return ""
	}
	if flag == "<arg>" {
		return `(\S+\s+)?`
	}
	if strings.HasSuffix(flag, " <arg>") {
		flagName := strings.TrimSuffix(flag, " <arg>")
		return `(` + regexp.QuoteMeta(flagName) + `\s*\S+\s+)?`
	}
	return `(` + regexp.QuoteMeta(flag) + `\s+)?`
}

// BuildWrapperPattern creates an anchored regex for a wrapper command.
// "timeout" with flags=["<arg>"] becomes "^timeout\s+(\S+\s+)?"
func BuildWrapperPattern(cmd string, flags []string) string {
	var flagPatterns string
	for _, f := range flags {
		flagPatterns += BuildFlagPattern(f)
	}
	return `^` + regexp.QuoteMeta(cmd) + `\s+` + flagPatterns
}

// CompileWrapper compiles a single wrapper spec into a Pattern.
// A spec is a command name optionally followed by flag specs:
// "timeout <arg>", "env", "nice -n <arg>".
func CompileWrapper(spec string) (Pattern, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return Pattern{}, fmt.Errorf("empty wrapper spec")
	}

	cmd := fields[0]
	var flags []string
	rest := fields[1:]
	for i := 0; i < len(rest); i++ {
		// Re-join "-n <arg>" style flag specs split by Fields.
		if i+1 < len(rest) && rest[i+1] == "<arg>" && rest[i] != "<arg>" {
			flags = append(flags, rest[i]+" <arg>")
			i++
			continue
		}
		flags = append(flags, rest[i])
	}

	re, err := regexp.Compile(BuildWrapperPattern(cmd, flags))
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid wrapper spec %q: %w", spec, err)
	}
	return Pattern{Regex: re, Name: cmd, Spec: spec}, nil
}

// CompileWrappers compiles a list of wrapper specs, failing on the first
// invalid one.
func CompileWrappers(specs []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(specs))
	for _, spec := range specs {
		p, err := CompileWrapper(spec)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}
