package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/utils"
	"github.com/redis/go-redis/v9"
)

// DocumentLocker serializes import runs per source document. Imports of
// different documents may run in parallel; two imports of the same document
// must not interleave their upserts.
type DocumentLocker interface {
	// Acquire takes the lock for the document or fails fast with
	// ErrImportLockHeld when another import of the same document is running.
	// The returned release function must be called when the import finishes.
	Acquire(ctx context.Context, sourceDocument string) (release func(), err error)
}

// localDocumentLocker is the process-local fallback used when no redis client
// is configured. Sufficient for a single importer instance.
type localDocumentLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalDocumentLocker creates a process-local per-document locker
func NewLocalDocumentLocker() DocumentLocker {
	return &localDocumentLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *localDocumentLocker) Acquire(_ context.Context, sourceDocument string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[sourceDocument]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[sourceDocument] = lock
	}
	l.mu.Unlock()

	if !lock.TryLock() {
		return nil, NewBusinessError("IMPORT_LOCK_HELD",
			"Import of document "+sourceDocument+" is already in progress", ErrImportLockHeld)
	}
	return lock.Unlock, nil
}

// redisDocumentLocker serializes imports across instances with SET NX and a
// TTL so a crashed importer cannot hold a document forever.
type redisDocumentLocker struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewRedisDocumentLocker creates a redis-backed per-document locker
func NewRedisDocumentLocker(rc *redis.Client) DocumentLocker {
	return &redisDocumentLocker{
		rc:  rc,
		ttl: utils.ImportLockTTL,
	}
}

func (l *redisDocumentLocker) Acquire(ctx context.Context, sourceDocument string) (func(), error) {
	key := utils.ImportLockKeyPrefix + sourceDocument
	token := uuid.New().String()

	ok, err := l.rc.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, NewBusinessError("IMPORT_LOCK_FAILED", "Failed to acquire import lock", err)
	}
	if !ok {
		return nil, NewBusinessError("IMPORT_LOCK_HELD",
			"Import of document "+sourceDocument+" is already in progress", ErrImportLockHeld)
	}

	release := func() {
		// Only the holder may release: delete the key when it still carries
		// our token.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		const script = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`
		_ = l.rc.Eval(releaseCtx, script, []string{key}, token).Err()
	}

	return release, nil
}
