package ciutil

import (
	"log/slog"
	"os"
	"strings"
)

// Common environment variable names used across the codebase.
const (
	// CI environment detection variables
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	// Redis used by integration tests
	EnvSlayTestRedisAddr = "SLAY_TEST_REDIS_ADDR" // Preferred standardized name
	EnvRedisAddr         = "REDIS_ADDR"
)

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// GetEnvWithFallbacks returns the value of the first non-empty environment variable
// from the provided list. If no environment variables are set, it returns the defaultValue.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Warn("Using legacy environment variable",
					"used_var", envVar,
					"preferred_var", envVars[0],
					"value", MaskSensitiveValue(val),
				)
			}
			return val
		}
	}
	return defaultValue
}

// MaskSensitiveValue hides the password of a redis:// or rediss:// URL so
// the value can be logged.
func MaskSensitiveValue(value string) string {
	if !strings.HasPrefix(value, "redis://") && !strings.HasPrefix(value, "rediss://") {
		return value
	}
	scheme, rest, _ := strings.Cut(value, "://")
	userinfo, host, found := strings.Cut(rest, "@")
	if !found {
		return value
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return value
	}
	return scheme + "://" + user + ":****@" + host
}
