package db

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	PriceCacheTTL   = 60 * time.Second
	AccountCacheTTL = 30 * time.Second
)

// Key sets let a whole cache family be cleared without flushing the shared cache.
var (
	Cache          *ristretto.Cache
	PriceCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	AccountCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	accountVersions = struct {
		sync.Mutex
		m map[string]uint64
	}{m: make(map[string]uint64)}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Price Cache Functions
func GetPriceCache(cacheKey string) (map[string]float64, bool) {
	if Cache == nil {
		return nil, false
	}
	v, ok := Cache.Get("price:" + cacheKey)
	if !ok {
		return nil, false
	}
	prices, ok := v.(map[string]float64)
	return prices, ok
}

func SetPriceCache(cacheKey string, prices map[string]float64) {
	if Cache == nil {
		return
	}
	key := "price:" + cacheKey
	PriceCacheKeys.Lock()
	PriceCacheKeys.m[key] = struct{}{}
	PriceCacheKeys.Unlock()
	Cache.SetWithTTL(key, prices, 1, PriceCacheTTL)
}

func ClearAllPriceCaches() {
	if Cache == nil {
		return
	}
	PriceCacheKeys.Lock()
	for key := range PriceCacheKeys.m {
		Cache.Del(key)
	}
	PriceCacheKeys.m = make(map[string]struct{})
	PriceCacheKeys.Unlock()
}

// Account Cache Functions. Entries hold a user's account list under the user's current
// version. Every balance mutation bumps the version, so a list read before the mutation
// committed is stored under a key nobody looks up again.
func AccountCacheVersion(userID string) uint64 {
	accountVersions.Lock()
	defer accountVersions.Unlock()
	return accountVersions.m[userID]
}

func accountCacheKey(userID string, version uint64) string {
	return fmt.Sprintf("accounts:%s:%d", userID, version)
}

func GetAccountCache(userID string, version uint64) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(accountCacheKey(userID, version))
}

func SetAccountCache(userID string, version uint64, value interface{}) {
	if Cache == nil {
		return
	}
	key := accountCacheKey(userID, version)
	AccountCacheKeys.Lock()
	AccountCacheKeys.m[key] = struct{}{}
	AccountCacheKeys.Unlock()
	Cache.SetWithTTL(key, value, 1, AccountCacheTTL)
}

// DelAccountCache invalidates the user's account list. Call it after the mutation commits.
func DelAccountCache(userID string) {
	accountVersions.Lock()
	old := accountVersions.m[userID]
	accountVersions.m[userID] = old + 1
	accountVersions.Unlock()

	if Cache == nil {
		return
	}
	key := accountCacheKey(userID, old)
	AccountCacheKeys.Lock()
	delete(AccountCacheKeys.m, key)
	AccountCacheKeys.Unlock()
	Cache.Del(key)
}

func ClearAllAccountCaches() {
	if Cache == nil {
		return
	}
	AccountCacheKeys.Lock()
	for key := range AccountCacheKeys.m {
		Cache.Del(key)
	}
	AccountCacheKeys.m = make(map[string]struct{})
	AccountCacheKeys.Unlock()
}
