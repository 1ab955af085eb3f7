package embedding

import (
	"context"
	"testing"

	"github.com/rushteam/recserve/store"
)

func seededMemoryStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })

	ctx := context.Background()
	seeds := map[string]string{
		"i2vEmb:1":   "0.1,0.2",
		"i2vEmb:2":   "0.3,0.4",
		"i2vEmb:bad": "1.0",       // id 不是数字
		"i2vEmb:3":   "not,float", // 向量串非法
		"uEmb:10":    "1.5",
		"other:1":    "9.9", // 命名空间之外
	}
	for k, v := range seeds {
		if err := kv.Set(ctx, k, []byte(v)); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	return kv
}

func TestStoreSourceFetchAll(t *testing.T) {
	src := NewStoreSource(seededMemoryStore(t))

	entries, skipped, err := src.FetchAll(context.Background(), KindMovie)
	if err != nil {
		t.Fatalf("FetchAll(movie) error = %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// MemoryStore.Keys 按字典序返回
	if entries[0].ID != 1 || entries[0].Emb[1] != 0.2 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].ID != 2 || entries[1].Emb[0] != 0.3 {
		t.Errorf("entries[1] = %+v", entries[1])
	}

	users, skipped, err := src.FetchAll(context.Background(), KindUser)
	if err != nil {
		t.Fatalf("FetchAll(user) error = %v", err)
	}
	if skipped != 0 || len(users) != 1 || users[0].ID != 10 || users[0].Emb[0] != 1.5 {
		t.Errorf("user entries = %+v, skipped = %d", users, skipped)
	}
}

func TestStoreSourceCustomPrefix(t *testing.T) {
	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	ctx := context.Background()
	if err := kv.Set(ctx, "i2vEmb_large:7", []byte("7.7")); err != nil {
		t.Fatal(err)
	}

	src := NewStoreSource(kv)
	src.MoviePrefix = "i2vEmb_large:"
	entries, _, err := src.FetchAll(ctx, KindMovie)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 7 || entries[0].Emb[0] != 7.7 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestStoreFeatureSourceFetch(t *testing.T) {
	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	ctx := context.Background()

	if err := kv.HSet(ctx, "mf:1", "movieGenre1", []byte("Comedy")); err != nil {
		t.Fatal(err)
	}
	if err := kv.HSet(ctx, "mf:1", "movieRatingCount", []byte("42")); err != nil {
		t.Fatal(err)
	}
	if err := kv.HSet(ctx, "mf:2", "movieGenre1", []byte("Drama")); err != nil {
		t.Fatal(err)
	}
	if err := kv.HSet(ctx, "mf:oops", "movieGenre1", []byte("x")); err != nil {
		t.Fatal(err)
	}

	src := NewStoreFeatureSource(kv)
	entries, err := src.Fetch(ctx, nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	byID := make(map[int64]map[string]string, len(entries))
	for _, e := range entries {
		byID[e.ID] = e.Features
	}
	if byID[1]["movieGenre1"] != "Comedy" || byID[1]["movieRatingCount"] != "42" {
		t.Errorf("features[1] = %v", byID[1])
	}
	if byID[2]["movieGenre1"] != "Drama" {
		t.Errorf("features[2] = %v", byID[2])
	}
}

func TestParseKeyID(t *testing.T) {
	tests := []struct {
		key    string
		wantID int64
		wantOK bool
	}{
		{"i2vEmb:158", 158, true},
		{"uEmb:42", 42, true},
		{"mf:7", 7, true},
		{"noseparator", 0, false},
		{"i2vEmb:abc", 0, false},
	}
	for _, tt := range tests {
		id, ok := parseKeyID(tt.key)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("parseKeyID(%q) = (%d, %v), want (%d, %v)", tt.key, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
