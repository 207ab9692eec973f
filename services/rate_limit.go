package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	appcontext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/shawnadoherty9/travelogie-sub001/dto"
	"github.com/shawnadoherty9/travelogie-sub001/model"
	"github.com/shawnadoherty9/travelogie-sub001/services/repositories"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
)

const (
	RateLimitBackendPostgres = "postgres"
	RateLimitBackendRedis    = "redis"
	RateLimitBackendMemory   = "memory"
)

// RateLimitService holds the per-endpoint policies and applies them through
// a RateLimiter backed by the configured store.
type RateLimitService struct {
	appcontext.DefaultService

	configs map[string]model.RateLimitConfig
	mutex   sync.RWMutex

	backend      string
	storeTimeout time.Duration

	dbSvc    DatabaseService
	repo     *repositories.RateLimitRepository
	redis    *RedisRateLimitStore
	memory   *MemoryRateLimitStore
	limiter  *RateLimiter
	stopJobs chan struct{}
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appcontext.Context) error {
	svc.configs = make(map[string]model.RateLimitConfig)
	svc.backend = strings.ToLower(shared.GetEnv("RATE_LIMIT_BACKEND", RateLimitBackendPostgres))
	svc.storeTimeout = shared.GetEnvDuration("RATE_LIMIT_STORE_TIMEOUT", DefaultStoreTimeout)
	svc.stopJobs = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.dbSvc = svc.Service(DATABASE_SVC).(DatabaseService)
	svc.repo = repositories.NewRateLimitRepository(svc.dbSvc.Db())

	var store RateLimitStore
	switch svc.backend {
	case RateLimitBackendRedis:
		redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService)
		if !ok || !redisSvc.Enabled() {
			return fmt.Errorf("rate limit backend %q requires REDIS_ADDR", svc.backend)
		}
		svc.redis = NewRedisRateLimitStore(redisSvc.GetClient())
		store = svc.redis
	case RateLimitBackendMemory:
		svc.memory = NewMemoryRateLimitStore()
		store = svc.memory
	case RateLimitBackendPostgres:
		store = svc.repo
	default:
		return fmt.Errorf("unknown rate limit backend %q", svc.backend)
	}

	svc.limiter = NewRateLimiter(store, &RateLimiterOpts{StoreTimeout: svc.storeTimeout})

	if err := svc.loadConfigs(context.Background()); err != nil {
		return err
	}

	go svc.startCleanupJob()

	log.WithField("backend", svc.backend).Info("Rate limit service started")
	return nil
}

func (svc *RateLimitService) Shutdown() {
	close(svc.stopJobs)
}

// ==================== CONFIGURATION MANAGEMENT ====================

// DefaultRateLimitConfigs are the policies seeded on first start.
func DefaultRateLimitConfigs() []model.RateLimitConfig {
	return []model.RateLimitConfig{
		{Endpoint: shared.EndpointTextToSpeech, MaxRequests: 10, WindowMinutes: 1, Description: "Text to speech synthesis", IsActive: true},
		{Endpoint: shared.EndpointSendEmail, MaxRequests: 5, WindowMinutes: 60, Description: "Outbound email", IsActive: true},
		{Endpoint: shared.EndpointMapboxToken, MaxRequests: 30, WindowMinutes: 60, Description: "Map token issuance", IsActive: true},
		{Endpoint: shared.EndpointPlacesSearch, MaxRequests: 60, WindowMinutes: 1, Description: "Place search", IsActive: true},
		{Endpoint: shared.EndpointEventScrape, MaxRequests: 20, WindowMinutes: 60, Description: "Event scraping", IsActive: true},
		{Endpoint: shared.EndpointPOIImport, MaxRequests: 10, WindowMinutes: 60, Description: "Admin POI import", IsActive: true},
		{Endpoint: shared.EndpointAPIGeneral, MaxRequests: 1000, WindowMinutes: 60, Description: "General API rate limit per caller", IsActive: true},
	}
}

func (svc *RateLimitService) loadConfigs(ctx context.Context) error {
	if err := svc.repo.SeedConfigs(ctx, DefaultRateLimitConfigs()); err != nil {
		return err
	}

	configs, err := svc.repo.ListConfigs(ctx)
	if err != nil {
		return err
	}

	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	for _, config := range configs {
		svc.configs[config.Endpoint] = config
	}
	return nil
}

func (svc *RateLimitService) config(endpoint string) (model.RateLimitConfig, bool) {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	config, ok := svc.configs[endpoint]
	return config, ok
}

// ==================== CORE RATE LIMITING LOGIC ====================

// IsAllowed applies the stored policy for endpoint. Endpoints without an
// active policy are not limited.
func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpoint string) *dto.RateLimitInfo {
	config, exists := svc.config(endpoint)
	if !exists || !config.IsActive {
		return &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}
	}

	return svc.limiter.Evaluate(ctx, identifier, endpoint, config.MaxRequests, config.WindowMinutes)
}

// ==================== MIDDLEWARE FUNCTIONS ====================

// RateLimit limits the wrapped routes under the policy of endpoint.
func (svc *RateLimitService) RateLimit(endpoint string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := svc.IsAllowed(c.UserContext(), shared.ResolveIdentifier(c), endpoint)

		shared.SetRateLimitHeaders(c, info)

		if !info.Allowed {
			return RateLimitExceeded(endpoint, info)
		}

		return c.Next()
	}
}

// RateLimitExceeded is the 429 error for a denied decision.
func RateLimitExceeded(endpoint string, info *dto.RateLimitInfo) error {
	return shared.NewTooManyRequestsError(rateLimitMessage(endpoint), shared.RateLimitExceededData(endpoint, info))
}

func rateLimitMessage(endpoint string) string {
	messages := map[string]string{
		shared.EndpointTextToSpeech: "Too many speech requests. Please wait a moment.",
		shared.EndpointSendEmail:    "Too many emails sent. Please try again later.",
		shared.EndpointMapboxToken:  "Too many map token requests. Please try again later.",
		shared.EndpointPlacesSearch: "Too many searches. Please slow down.",
		shared.EndpointEventScrape:  "Too many event lookups. Please try again later.",
		shared.EndpointPOIImport:    "Too many imports. Please try again later.",
		shared.EndpointAPIGeneral:   "Too many requests. Please slow down.",
	}

	if message, exists := messages[endpoint]; exists {
		return message
	}

	return "Too many requests. Please try again later."
}

// ==================== ADMIN FUNCTIONS ====================

func (svc *RateLimitService) ListConfigs() []dto.RateLimitConfigResponse {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	configs := make([]dto.RateLimitConfigResponse, 0, len(svc.configs))
	for _, config := range svc.configs {
		configs = append(configs, configResponse(config))
	}
	sortConfigs(configs)
	return configs
}

func (svc *RateLimitService) Stats(ctx context.Context) (*dto.RateLimitStats, error) {
	now := time.Now().UTC()
	stats := &dto.RateLimitStats{
		Backend:   svc.backend,
		Configs:   svc.ListConfigs(),
		Timestamp: now,
	}

	switch svc.backend {
	case RateLimitBackendPostgres:
		// The longest window bounds which records can still count.
		total, active, err := svc.repo.CountRecords(ctx, now.Add(-svc.longestWindow()))
		if err != nil {
			return nil, svc.dbSvc.HandleError(err)
		}
		stats.TotalRecords = total
		stats.ActiveRecords = active
	case RateLimitBackendMemory:
		stats.TotalRecords = int64(svc.memory.Len())
	}

	return stats, nil
}

// Reset forgets the counter of one (identifier, endpoint) pair.
func (svc *RateLimitService) Reset(ctx context.Context, identifier, endpoint string) error {
	switch svc.backend {
	case RateLimitBackendRedis:
		return svc.redis.Reset(ctx, identifier, endpoint)
	case RateLimitBackendMemory:
		svc.memory.Reset(identifier, endpoint)
		return nil
	default:
		if err := svc.repo.DeleteRateLimit(ctx, identifier, endpoint); err != nil {
			return svc.dbSvc.HandleError(err)
		}
		return nil
	}
}

// UpdateConfig changes the stored policy of an endpoint and applies it to
// subsequent checks.
func (svc *RateLimitService) UpdateConfig(ctx context.Context, endpoint string, req dto.UpdateRateLimitConfigRequest) (*dto.RateLimitConfigResponse, error) {
	config, exists := svc.config(endpoint)
	if !exists {
		return nil, shared.NewNotFoundError(nil, fmt.Sprintf("No rate limit policy for %s", endpoint))
	}

	if req.MaxRequests > 0 {
		config.MaxRequests = req.MaxRequests
	}
	if req.WindowMinutes > 0 {
		config.WindowMinutes = req.WindowMinutes
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	if err := svc.repo.UpdateConfig(ctx, &config); err != nil {
		return nil, svc.dbSvc.HandleError(err)
	}

	svc.mutex.Lock()
	svc.configs[endpoint] = config
	svc.mutex.Unlock()

	log.WithFields(log.Fields{
		"endpoint":       endpoint,
		"max_requests":   config.MaxRequests,
		"window_minutes": config.WindowMinutes,
		"is_active":      config.IsActive,
	}).Info("Rate limit policy updated")

	resp := configResponse(config)
	return &resp, nil
}

func (svc *RateLimitService) longestWindow() time.Duration {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	longest := time.Hour
	for _, config := range svc.configs {
		if w := config.Window(); w > longest {
			longest = w
		}
	}
	return longest
}

func configResponse(config model.RateLimitConfig) dto.RateLimitConfigResponse {
	return dto.RateLimitConfigResponse{
		Endpoint:      config.Endpoint,
		MaxRequests:   config.MaxRequests,
		WindowMinutes: config.WindowMinutes,
		Description:   config.Description,
		IsActive:      config.IsActive,
	}
}

// ==================== BACKGROUND JOBS ====================

// CleanupOldRecords drops counters older than every configured window.
// Redis keys expire on their own.
func (svc *RateLimitService) CleanupOldRecords(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-svc.longestWindow())

	switch svc.backend {
	case RateLimitBackendMemory:
		return int64(svc.memory.Cleanup(cutoff)), nil
	case RateLimitBackendPostgres:
		return svc.repo.CleanupOldRecords(ctx, cutoff)
	default:
		return 0, nil
	}
}

func (svc *RateLimitService) startCleanupJob() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := svc.CleanupOldRecords(context.Background())
			if err != nil {
				log.WithError(err).Error("Rate limit cleanup failed")
				continue
			}
			log.WithField("removed", removed).Info("Rate limit cleanup completed")
		case <-svc.stopJobs:
			return
		}
	}
}

func sortConfigs(configs []dto.RateLimitConfigResponse) {
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Endpoint < configs[j].Endpoint
	})
}
