package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/citimaster/booking-platform/internal/config"
	"github.com/citimaster/booking-platform/internal/conversation"
	"github.com/citimaster/booking-platform/internal/intent"
	"github.com/citimaster/booking-platform/internal/matching"
	"github.com/citimaster/booking-platform/internal/session"
	"github.com/citimaster/booking-platform/pkg/logging"
)

// BuildIntentBridge wires the Gemini-backed intent bridge. Without an
// API key the bridge still works, answering every call from its local
// heuristics. The returned closer releases the model client and is safe
// to call with no client attached.
func BuildIntentBridge(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (intent.Bridge, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	bridgeCfg := intent.Config{
		Timeout:           cfg.IntentTimeout,
		DefaultCity:       cfg.DefaultCity,
		DefaultPostalCode: cfg.DefaultPostalCode,
		ServiceCatalog:    conversation.ServiceCatalogPrompt(),
	}

	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		logger.Warn("no Gemini API key configured; intent parsing runs on local heuristics")
		return intent.NewLLMBridge(nil, bridgeCfg, logger), func() error { return nil }, nil
	}

	client, err := intent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Gemini intent bridge ready", "model", cfg.GeminiModelID)
	return intent.NewLLMBridge(client, bridgeCfg, logger), client.Close, nil
}

// BuildSessionStore returns the Redis-backed conversation session store.
func BuildSessionStore(client *redis.Client, ttl time.Duration) *session.RedisStore {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return session.NewRedisStore(client, ttl)
}

// BuildEngine assembles the conversation engine over the vendor pool.
func BuildEngine(bridge intent.Bridge, pool conversation.VendorPool, cfg *appconfig.Config, logger *logging.Logger) *conversation.Engine {
	maxMatches := 3
	if cfg != nil && cfg.MaxVendorMatches > 0 {
		maxMatches = cfg.MaxVendorMatches
	}
	return conversation.NewEngine(bridge, pool, matching.NewMatcher(maxMatches), logger)
}
