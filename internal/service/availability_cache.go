package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hospital-booking/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefixes for the availability cache
	RedisOccupiedKeyPrefix   = "availability:occupied:"
	RedisGenerationKeyPrefix = "availability:gen:"

	// Always present in a cached set so an empty day is still a hit
	occupiedSentinel = "-"

	// Generation keys outlive any occupied set they guard
	generationTTL = 48 * time.Hour

	// Floor for sets whose date is already over
	minOccupiedTTL = time.Minute
)

// storeOccupiedScript replaces the cached set only if nobody invalidated the
// day since the caller read its generation. This keeps a slow reader from
// caching a pre-booking view after the booking already invalidated it.
//
// KEYS[1] occupied set, KEYS[2] generation
// ARGV[1] expected generation, ARGV[2] ttl in ms, ARGV[3..] members
var storeOccupiedScript = redis.NewScript(`
	local current = redis.call('GET', KEYS[2])
	if not current then
		current = '0'
	end
	if current ~= ARGV[1] then
		return 0
	end
	redis.call('DEL', KEYS[1])
	redis.call('SADD', KEYS[1], unpack(ARGV, 3))
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
	return 1
`)

// invalidateScript bumps the generation and drops the set in one step.
//
// KEYS[1] occupied set, KEYS[2] generation
// ARGV[1] generation ttl in ms
var invalidateScript = redis.NewScript(`
	redis.call('INCR', KEYS[2])
	redis.call('PEXPIRE', KEYS[2], ARGV[1])
	redis.call('DEL', KEYS[1])
	return 1
`)

// OccupiedSnapshot is one read of the cache for a doctor and day.
type OccupiedSnapshot struct {
	Slots      []entity.TimeSlot
	Generation int64
	Hit        bool
}

// AvailabilityCache caches occupied slots per doctor and day. It is
// advisory: booking never consults it, and every committed mutation
// invalidates the affected day.
type AvailabilityCache interface {
	GetOccupied(ctx context.Context, doctorID int64, date entity.Date) (*OccupiedSnapshot, error)
	StoreOccupied(ctx context.Context, doctorID int64, date entity.Date, generation int64, slots []entity.TimeSlot) error
	Invalidate(ctx context.Context, doctorID int64, date entity.Date) error
}

type redisAvailabilityCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
	loc         *time.Location
	now         func() time.Time
}

func NewAvailabilityCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration, loc *time.Location) AvailabilityCache {
	return &redisAvailabilityCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		loc:         loc,
		now:         time.Now,
	}
}

func occupiedKey(doctorID int64, date entity.Date) string {
	return fmt.Sprintf("%s%d:%s", RedisOccupiedKeyPrefix, doctorID, date)
}

func generationKey(doctorID int64, date entity.Date) string {
	return fmt.Sprintf("%s%d:%s", RedisGenerationKeyPrefix, doctorID, date)
}

func (c *redisAvailabilityCache) GetOccupied(ctx context.Context, doctorID int64, date entity.Date) (*OccupiedSnapshot, error) {
	snapshot := &OccupiedSnapshot{}

	generation, err := c.redisClient.Get(ctx, generationKey(doctorID, date)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get availability generation for doctor %d on %s: %w", doctorID, date, err)
	}
	snapshot.Generation = generation

	members, err := c.redisClient.SMembers(ctx, occupiedKey(doctorID, date)).Result()
	if err != nil {
		return nil, fmt.Errorf("get occupied slots for doctor %d on %s: %w", doctorID, date, err)
	}
	if len(members) == 0 {
		return snapshot, nil
	}

	snapshot.Hit = true
	for _, member := range members {
		if member == occupiedSentinel {
			continue
		}
		snapshot.Slots = append(snapshot.Slots, entity.TimeSlot(member))
	}
	return snapshot, nil
}

func (c *redisAvailabilityCache) StoreOccupied(ctx context.Context, doctorID int64, date entity.Date, generation int64, slots []entity.TimeSlot) error {
	args := make([]interface{}, 0, len(slots)+3)
	args = append(args, strconv.FormatInt(generation, 10), c.calculateTTL(date).Milliseconds(), occupiedSentinel)
	for _, slot := range slots {
		args = append(args, string(slot))
	}

	stored, err := storeOccupiedScript.Run(ctx, c.redisClient,
		[]string{occupiedKey(doctorID, date), generationKey(doctorID, date)}, args...).Int()
	if err != nil {
		return fmt.Errorf("store occupied slots for doctor %d on %s: %w", doctorID, date, err)
	}
	if stored == 0 {
		c.log.Debugf("Skipped stale availability for doctor %d on %s (generation %d)", doctorID, date, generation)
	}
	return nil
}

func (c *redisAvailabilityCache) Invalidate(ctx context.Context, doctorID int64, date entity.Date) error {
	err := invalidateScript.Run(ctx, c.redisClient,
		[]string{occupiedKey(doctorID, date), generationKey(doctorID, date)}, generationTTL.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("invalidate availability for doctor %d on %s: %w", doctorID, date, err)
	}
	return nil
}

// calculateTTL caps the configured TTL at the end of the cached day
func (c *redisAvailabilityCache) calculateTTL(date entity.Date) time.Duration {
	untilEndOfDay := date.AddDays(1).In(c.loc).Sub(c.now())
	ttl := c.ttl
	if untilEndOfDay < ttl {
		ttl = untilEndOfDay
	}
	if ttl < minOccupiedTTL {
		return minOccupiedTTL
	}
	return ttl
}
