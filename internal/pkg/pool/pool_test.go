package pool

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"
)

// tagEntry 测试用缓存条目
type tagEntry struct {
	TagID      int64  `json:"tag_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	BoardCount int    `json:"board_count"`
	AssetCount int    `json:"asset_count"`
}

func formatKey(i int) string {
	return "tag:" + strconv.Itoa(i)
}

func encodeEntry(i int) []byte {
	data, _ := json.Marshal(tagEntry{
		TagID:      int64(i),
		Name:       "Test Tag Name",
		Slug:       "test-tag-name",
		BoardCount: i % 10,
		AssetCount: 100 + i,
	})
	return data
}

func TestBigCache_SetGetRemove(t *testing.T) {
	cache, err := NewBigCache(8, time.Minute)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer cache.Close()

	key := formatKey(1)
	if _, ok := cache.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := encodeEntry(1)
	if err := cache.Set(key, want); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	if err := cache.Remove(key); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := cache.Get(key); ok {
		t.Fatal("expected miss after remove")
	}
}

func TestBigCache_Flush(t *testing.T) {
	cache, err := NewBigCache(8, time.Minute)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer cache.Close()

	for i := 0; i < 100; i++ {
		cache.Set(formatKey(i), encodeEntry(i))
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		if _, ok := cache.Get(formatKey(i)); ok {
			t.Fatalf("expected miss after flush, key %d survived", i)
		}
	}
}

func TestSimpleCache(t *testing.T) {
	cache := NewSimpleCache[string, int]()

	cache.Set("a", 1)
	cache.Set("b", 2)

	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Fatalf("got (%d, %v), want (1, true)", v, ok)
	}

	cache.Remove("a")
	if _, ok := cache.Get("a"); ok {
		t.Fatal("expected miss after remove")
	}

	cache.Flush()
	if _, ok := cache.Get("b"); ok {
		t.Fatal("expected miss after flush")
	}
}

func BenchmarkBigCache_Set(b *testing.B) {
	cache, err := NewBigCache(64, 10*time.Minute)
	if err != nil {
		b.Fatalf("failed to create cache: %v", err)
	}
	defer cache.Close()

	value := encodeEntry(0)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		cache.Set(formatKey(i), value)
	}
}

func BenchmarkBigCache_Get(b *testing.B) {
	cache, err := NewBigCache(64, 10*time.Minute)
	if err != nil {
		b.Fatalf("failed to create cache: %v", err)
	}
	defer cache.Close()

	// 预热数据
	for i := 0; i < 10000; i++ {
		cache.Set(formatKey(i), encodeEntry(i))
	}

	b.ResetTimer()
	b.ReportAllocs()

	// 100% 缓存命中
	for i := 0; i < b.N; i++ {
		cache.Get(formatKey(i % 10000))
	}
}
