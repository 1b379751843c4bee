package cli

import (
	"testing"
	"time"

	"poap-service/internal/config"
)

func TestCourseCacheTTL(t *testing.T) {
	var cfg config.Config
	if got := courseCacheTTL(cfg, true); got != defaultCourseTTL {
		t.Fatalf("expected default, got %v", got)
	}

	cfg.Course.TTL = "3m"
	if got := courseCacheTTL(cfg, false); got != 3*time.Minute {
		t.Fatalf("expected course ttl for memory cache, got %v", got)
	}
	if got := courseCacheTTL(cfg, true); got != 3*time.Minute {
		t.Fatalf("expected course ttl when redis ttl unset, got %v", got)
	}

	cfg.Redis.TTL = "30s"
	if got := courseCacheTTL(cfg, true); got != 30*time.Second {
		t.Fatalf("expected redis ttl for redis cache, got %v", got)
	}
	if got := courseCacheTTL(cfg, false); got != 3*time.Minute {
		t.Fatalf("redis ttl must not affect the memory cache, got %v", got)
	}
}
