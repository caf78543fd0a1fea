package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"gym-aforo-backend/internal/aforo"
	"gym-aforo-backend/internal/mw"
	"gym-aforo-backend/internal/store"
)

// RouterConfig holds the transport-level tunables.
type RouterConfig struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(engine *aforo.Engine, s store.Store, webpushOptions *webpush.Options, cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(engine, s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// The capacity registry is low-churn, so its reads are cached. Live
	// occupancy endpoints are not: a cached head count would let a stale
	// "room free" answer race the admission gate.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/capacities", caching, handler.GetCapacities)
		api.PUT("/capacities/:room", handler.PutCapacity)
		api.DELETE("/capacities/:room", handler.DeleteRoom)

		api.POST("/checkin", handler.PostCheckIn)
		api.POST("/checkout", handler.PostCheckOut)

		api.GET("/occupancy", handler.GetOccupancy)
		api.GET("/status", handler.GetStatus)
		api.GET("/summary", handler.GetSummary)
		api.GET("/events", handler.GetEvents)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
