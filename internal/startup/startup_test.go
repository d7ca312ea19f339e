package startup

import (
	"os"
	"testing"
	"time"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("TEST_UNSET_VAR")
	if got := getEnv("TEST_UNSET_VAR", "default"); got != "default" {
		t.Errorf("Expected default, got %q", got)
	}

	t.Setenv("TEST_SET_VAR", "custom")
	if got := getEnv("TEST_SET_VAR", "default"); got != "custom" {
		t.Errorf("Expected custom, got %q", got)
	}

	t.Setenv("TEST_EMPTY_VAR", "")
	if got := getEnv("TEST_EMPTY_VAR", "default"); got != "default" {
		t.Errorf("Expected default for empty value, got %q", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	os.Unsetenv("TEST_BOOL")
	if got := getEnvBool("TEST_BOOL", true); got != true {
		t.Error("Expected default true")
	}

	t.Setenv("TEST_BOOL", "false")
	if got := getEnvBool("TEST_BOOL", true); got != false {
		t.Error("Expected false")
	}

	t.Setenv("TEST_BOOL", "not-a-bool")
	if got := getEnvBool("TEST_BOOL", true); got != true {
		t.Error("Expected default on parse failure")
	}
}

func TestGetEnvDuration(t *testing.T) {
	os.Unsetenv("TEST_DURATION")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("Expected default, got %v", got)
	}

	t.Setenv("TEST_DURATION", "90s")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Errorf("Expected 90s, got %v", got)
	}

	t.Setenv("TEST_DURATION", "soon")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Errorf("Expected default on parse failure, got %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		MediaRoot:       "/media",
		CacheDir:        "/cache",
		Port:            "8080",
		RebuildInterval: 30 * time.Minute,
		SnapshotMaxAge:  15 * time.Minute,
		IndexWorkers:    4,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	noRoot := valid
	noRoot.MediaRoot = ""
	if err := noRoot.Validate(); err == nil {
		t.Error("Expected error for missing media root")
	}

	badPort := valid
	badPort.Port = "not-a-port"
	if err := badPort.Validate(); err == nil {
		t.Error("Expected error for invalid port")
	}

	noWorkers := valid
	noWorkers.IndexWorkers = 0
	if err := noWorkers.Validate(); err == nil {
		t.Error("Expected error for zero workers")
	}
}

func TestGetRouteGroup(t *testing.T) {
	cases := map[string]string{
		"/healthz":              "healthz",
		"/api/v1/media":         "api/v1",
		"/api/v1/index/rebuild": "api/v1",
		"/metrics":              "metrics",
	}

	for path, want := range cases {
		if got := getRouteGroup(path); got != want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoadConfigUsesEnvironment(t *testing.T) {
	mediaRoot := t.TempDir()
	cacheDir := t.TempDir()

	t.Setenv("MEDIA_ROOT", mediaRoot)
	t.Setenv("CACHE_DIR", cacheDir)
	t.Setenv("PORT", "9999")
	t.Setenv("REBUILD_INTERVAL", "5m")
	t.Setenv("SNAPSHOT_MAX_AGE", "0")
	t.Setenv("METRICS_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.MediaRoot != mediaRoot {
		t.Errorf("Expected media root %q, got %q", mediaRoot, config.MediaRoot)
	}
	if config.Port != "9999" {
		t.Errorf("Expected port 9999, got %q", config.Port)
	}
	if config.RebuildInterval != 5*time.Minute {
		t.Errorf("Expected 5m rebuild interval, got %v", config.RebuildInterval)
	}
	if config.SnapshotMaxAge != 0 {
		t.Errorf("Expected snapshot reuse disabled, got %v", config.SnapshotMaxAge)
	}
	if config.MetricsEnabled {
		t.Error("Expected metrics disabled")
	}
	if !config.ThumbnailsEnabled {
		t.Error("Expected thumbnails enabled in a writable cache dir")
	}
}
