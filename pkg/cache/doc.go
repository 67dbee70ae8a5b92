// Package cache provides a generic key-value cache with an in-memory LRU
// implementation and a Redis implementation.
//
// The session codec uses it to avoid a database round trip per request when
// resolving the signed-in user:
//
//	users := cache.NewMemory[session.Principal](cache.WithDefaultTTL(time.Minute))
//	codec := session.NewCodec(secret, lookup, session.WithCache(users, time.Minute))
//
// With Redis, several app instances share the same entries:
//
//	client, err := cache.OpenRedis(ctx, cfg.Redis)
//	users := cache.NewRedis(client, session.CacheMarshaler(), cache.WithPrefix("users"))
//
// GetOrSet collapses concurrent misses for the same key into one load.
package cache
