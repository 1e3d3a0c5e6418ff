package runner

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ResolveArgs computes the argument vector for one batch from the command
// template. Every template token byte-for-byte equal to placeholder is
// replaced in place by the full replacement list; no substring matching is
// performed, so a token merely containing the placeholder is left alone. An
// empty placeholder means none is configured and the replacements are
// appended after the template instead.
func ResolveArgs(template []string, placeholder string, replacements []string) []string {
	resolved := make([]string, 0, len(template)+len(replacements))

	if placeholder == "" {
		resolved = append(resolved, template...)
		return append(resolved, replacements...)
	}

	for _, token := range template {
		if token == placeholder {
			resolved = append(resolved, replacements...)
			continue
		}
		resolved = append(resolved, token)
	}
	return resolved
}

// ResolveShell computes the shell command line for one batch. The command is
// a single opaque string interpreted by the shell, so matching is by
// substring: every occurrence of placeholder is replaced by the
// shell-quoted replacement paths joined with spaces. With no placeholder the
// quoted paths are appended to the end of the line.
func ResolveShell(command, placeholder string, replacements []string) string {
	quoted := shellquote.Join(replacements...)

	if placeholder == "" {
		if quoted == "" {
			return command
		}
		return command + " " + quoted
	}
	return strings.ReplaceAll(command, placeholder, quoted)
}

// shellArgv wraps a resolved shell command line for execution by sh. The -eu
// flags fail the wrapped line on unset variables and on the first failing
// command.
func shellArgv(commandLine string) []string {
	return []string{"sh", "-eu", "-c", commandLine}
}
