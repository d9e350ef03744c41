package config

import (
	"os"
	"regexp"
)

// envRefPattern matches ${VAR} and ${VAR:-default}.
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces environment variable references in the input.
// ${VAR} becomes VAR's value (empty if unset); ${VAR:-default} falls back to
// the literal default when VAR is unset.
func ExpandEnv(input string) string {
	return envRefPattern.ReplaceAllStringFunc(input, func(ref string) string {
		groups := envRefPattern.FindStringSubmatch(ref)
		if len(groups) < 2 {
			return ref
		}
		if val, ok := os.LookupEnv(groups[1]); ok {
			return val
		}
		if len(groups) >= 3 {
			return groups[2]
		}
		return ""
	})
}

// ExpandEnvBytes applies ExpandEnv to a byte slice.
func ExpandEnvBytes(input []byte) []byte {
	return []byte(ExpandEnv(string(input)))
}
