package db

import "testing"

func TestPriceCacheRoundTrip(t *testing.T) {
	InitCache()
	defer ClearAllPriceCaches()

	SetPriceCache("bitcoin,ethereum", map[string]float64{"bitcoin": 1500000000})
	Cache.Wait()

	prices, ok := GetPriceCache("bitcoin,ethereum")
	if !ok {
		t.Fatal("Expected cached prices")
	}
	if prices["bitcoin"] != 1500000000 {
		t.Errorf("Expected bitcoin price 1500000000, got %v", prices["bitcoin"])
	}

	ClearAllPriceCaches()
	if _, ok := GetPriceCache("bitcoin,ethereum"); ok {
		t.Error("Expected price cache to be cleared")
	}
}

func TestAccountCacheInvalidation(t *testing.T) {
	InitCache()

	SetAccountCache("user-1", AccountCacheVersion("user-1"), []string{"cash"})
	SetAccountCache("user-2", AccountCacheVersion("user-2"), []string{"bank"})
	Cache.Wait()

	DelAccountCache("user-1")
	if _, ok := GetAccountCache("user-1", AccountCacheVersion("user-1")); ok {
		t.Error("Expected user-1 accounts to be evicted")
	}
	if _, ok := GetAccountCache("user-2", AccountCacheVersion("user-2")); !ok {
		t.Error("Expected user-2 accounts to stay cached")
	}

	ClearAllAccountCaches()
	if _, ok := GetAccountCache("user-2", AccountCacheVersion("user-2")); ok {
		t.Error("Expected all account caches to be cleared")
	}
}

func TestAccountCacheIgnoresListReadBeforeMutation(t *testing.T) {
	InitCache()
	defer ClearAllAccountCaches()

	// A reader captures the version and queries the table before a transfer commits.
	version := AccountCacheVersion("user-3")
	DelAccountCache("user-3")
	SetAccountCache("user-3", version, []string{"stale"})
	Cache.Wait()

	if _, ok := GetAccountCache("user-3", AccountCacheVersion("user-3")); ok {
		t.Error("Expected a list read before the mutation to stay invisible")
	}
	if _, ok := GetAccountCache("user-3", version); !ok {
		t.Error("Expected the stale list to live only under the old version")
	}
}

func TestCacheDisabledIsNoop(t *testing.T) {
	saved := Cache
	Cache = nil
	defer func() { Cache = saved }()

	SetPriceCache("x", map[string]float64{"x": 1})
	if _, ok := GetPriceCache("x"); ok {
		t.Error("Expected miss without an initialized cache")
	}
}
