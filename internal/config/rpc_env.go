package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR_NAME} patterns in TOML values
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar checks if a raw TOML value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates a conventional env var name for a tenant's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: ens -> ENS_RPC_URL, op-sepolia -> OP_SEPOLIA_RPC_URL
func GenerateEnvVarName(namespace string) string {
	name := strings.ToUpper(namespace)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// resolveRPCURL expands env references in raw and falls back to the
// conventional <TENANT>_RPC_URL variable when raw is empty.
func resolveRPCURL(namespace, raw string) string {
	if raw == "" {
		return os.Getenv(GenerateEnvVarName(namespace))
	}
	return os.ExpandEnv(raw)
}
