package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"poap-service/internal/domain"
)

// CourseLoader fetches a course from its backing store (in-memory or Postgres).
type CourseLoader interface {
	LoadCourse(ctx context.Context, courseID int64) (domain.Course, error)
}

// CourseRepository caches courses with a TTL. Courses never change after
// creation, so the TTL only bounds memory, not staleness.
type CourseRepository struct {
	loader CourseLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[int64]cachedCourse
}

type cachedCourse struct {
	course    domain.Course
	expiresAt time.Time
}

func NewCourseRepository(loader CourseLoader, ttl time.Duration) *CourseRepository {
	return &CourseRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedCourse),
	}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID int64) (domain.Course, error) {
	if course, ok := r.lookup(courseID); ok {
		return course, nil
	}

	result, err, _ := r.sf.Do(flightKey(courseID), func() (interface{}, error) {
		if course, ok := r.lookup(courseID); ok {
			return course, nil
		}

		course, err := r.loader.LoadCourse(ctx, courseID)
		if err != nil {
			return domain.Course{}, err
		}

		r.mu.Lock()
		r.cache[courseID] = cachedCourse{
			course:    course,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return course, nil
	})
	if err != nil {
		return domain.Course{}, err
	}
	return result.(domain.Course), nil
}

func (r *CourseRepository) lookup(courseID int64) (domain.Course, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[courseID]; ok && entry.expiresAt.After(now) {
		return entry.course, true
	}
	return domain.Course{}, false
}

// ttlWithJitterLocked adds up to 10% jitter to spread expirations. r.mu must be held.
func (r *CourseRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func flightKey(courseID int64) string {
	return strconv.FormatInt(courseID, 10)
}
