package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

// CourseLoader fetches a course from its backing store.
type CourseLoader interface {
	LoadCourse(ctx context.Context, courseID int64) (domain.Course, error)
}

// CourseRepository caches course JSON in Redis and falls back to a loader on a miss.
// Courses are stored as: SET course:{id} {json} EX ttl
type CourseRepository struct {
	client *redis.Client
	loader CourseLoader
	log    logger.Log
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCourseRepository(client *redis.Client, loader CourseLoader, log logger.Log, ttl time.Duration) *CourseRepository {
	return &CourseRepository{
		client: client,
		loader: loader,
		log:    log,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID int64) (domain.Course, error) {
	key := r.key(courseID)
	if course, ok := r.cached(ctx, key); ok {
		return course, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if course, ok := r.cached(ctx, key); ok {
			return course, nil
		}

		course, err := r.loader.LoadCourse(ctx, courseID)
		if err != nil {
			return domain.Course{}, err
		}

		data, err := json.Marshal(course)
		if err != nil {
			return domain.Course{}, err
		}
		if err := r.client.Set(ctx, key, data, r.ttlWithJitter()).Err(); err != nil {
			r.log.Warn("course cache write failed", "course_id", courseID, logger.Err(err))
		}
		return course, nil
	})
	if err != nil {
		return domain.Course{}, err
	}
	return result.(domain.Course), nil
}

func (r *CourseRepository) cached(ctx context.Context, key string) (domain.Course, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("course cache read failed", "key", key, logger.Err(err))
		}
		return domain.Course{}, false
	}
	var course domain.Course
	if err := json.Unmarshal(data, &course); err != nil {
		r.log.Warn("course cache entry unreadable", "key", key, logger.Err(err))
		return domain.Course{}, false
	}
	return course, true
}

func (r *CourseRepository) key(courseID int64) string {
	return "course:" + strconv.FormatInt(courseID, 10)
}

// ttlWithJitter adds up to 10% jitter; zero ttl keeps the entry until evicted.
func (r *CourseRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
