package ciutil

import (
	"log/slog"
	"testing"
)

// GetTestRedisAddr returns the Redis address for integration tests from
// SLAY_TEST_REDIS_ADDR, falling back to REDIS_ADDR. It returns "" when
// neither is set.
func GetTestRedisAddr(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvSlayTestRedisAddr, EnvRedisAddr}, "", logger)
}

// RequireRedis returns the test Redis address or skips t when none is
// configured. In CI a missing address is logged so the skip is visible.
func RequireRedis(t *testing.T) string {
	t.Helper()

	addr := GetTestRedisAddr(slog.Default())
	if addr == "" {
		if IsCI() {
			t.Logf("CI run without %s; Redis integration tests are skipped", EnvSlayTestRedisAddr)
		}
		t.Skipf("%s not set, skipping Redis integration test", EnvSlayTestRedisAddr)
	}
	return addr
}
