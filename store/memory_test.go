package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/recserve/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want ErrStoreNotFound", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get() after Delete error = %v, want ErrStoreNotFound", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	kvs := map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}
	if err := m.BatchSet(ctx, kvs); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}

	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	// 不存在的 key 从结果中省略，不报错
	if !reflect.DeepEqual(got, kvs) {
		t.Errorf("BatchGet() = %v, want %v", got, kvs)
	}
}

func TestMemoryStoreKeys(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	for _, k := range []string{"i2vEmb:2", "i2vEmb:1", "uEmb:1"} {
		if err := m.Set(ctx, k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.HSet(ctx, "i2vEmb:3", "f", []byte("y")); err != nil {
		t.Fatal(err)
	}

	keys, err := m.Keys(ctx, "i2vEmb:*")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	// Hash key 也参与枚举，结果按字典序
	want := []string{"i2vEmb:1", "i2vEmb:2", "i2vEmb:3"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys(i2vEmb:*) = %v, want %v", keys, want)
	}

	exact, err := m.Keys(ctx, "uEmb:1")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if !reflect.DeepEqual(exact, []string{"uEmb:1"}) {
		t.Errorf("Keys(uEmb:1) = %v", exact)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	if err := m.HSet(ctx, "mf:1", "genre", []byte("Comedy")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}
	if err := m.HSet(ctx, "mf:1", "year", []byte("1995")); err != nil {
		t.Fatalf("HSet() error = %v", err)
	}

	v, err := m.HGet(ctx, "mf:1", "genre")
	if err != nil {
		t.Fatalf("HGet() error = %v", err)
	}
	if string(v) != "Comedy" {
		t.Errorf("HGet() = %q", v)
	}
	if _, err := m.HGet(ctx, "mf:1", "absent"); !core.IsStoreNotFound(err) {
		t.Errorf("HGet(absent field) error = %v, want ErrStoreNotFound", err)
	}

	all, err := m.HGetAll(ctx, "mf:1")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	if len(all) != 2 || string(all["year"]) != "1995" {
		t.Errorf("HGetAll() = %v", all)
	}

	// 不存在的 Hash 返回空表
	empty, err := m.HGetAll(ctx, "mf:999")
	if err != nil {
		t.Fatalf("HGetAll() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("HGetAll(missing) = %v, want empty", empty)
	}
}
