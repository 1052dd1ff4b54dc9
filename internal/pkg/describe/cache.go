package describe

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/emskillz/instructpoint/internal/app/models"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "describe_cache_hits_total",
		Help: "Number of course description cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "describe_cache_misses_total",
		Help: "Number of course description cache misses.",
	})
)

// Cache is an expiring LRU of generated descriptions keyed by course type.
type Cache struct {
	lru *expirable.LRU[models.CourseType, string]
}

// NewCache creates a description cache. A size of 0 falls back to a
// capacity large enough for every known course type.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = len(models.AllCourseTypes) * 2
	}
	return &Cache{
		lru: expirable.NewLRU[models.CourseType, string](size, nil, ttl),
	}
}

// Get returns the cached description for a course type, if present.
func (c *Cache) Get(courseType models.CourseType) (string, bool) {
	value, ok := c.lru.Get(courseType)
	if ok {
		cacheHits.Inc()
	} else {
		cacheMisses.Inc()
	}
	return value, ok
}

// Set stores a description for a course type.
func (c *Cache) Set(courseType models.CourseType, description string) {
	c.lru.Add(courseType, description)
}
