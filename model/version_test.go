package model

import (
	"errors"
	"testing"
)

func testVersions() []Version {
	return []Version{
		{ID: "standard", DisplayName: "standard dataset", MovieEmbSource: "item2vecEmb.csv", UserEmbSource: "userEmb.csv"},
		{ID: "large", DisplayName: "large dataset", MovieEmbSource: "item2vecEmb_large.csv", UserEmbSource: "userEmb_large.csv"},
	}
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name     string
		versions []Version
		active   string
		wantErr  bool
	}{
		{name: "explicit active", versions: testVersions(), active: "large"},
		{name: "default active is first", versions: testVersions(), active: ""},
		{name: "empty set", versions: nil, active: "", wantErr: true},
		{name: "duplicate id", versions: append(testVersions(), Version{ID: "standard"}), wantErr: true},
		{name: "empty id", versions: []Version{{ID: ""}}, wantErr: true},
		{name: "unknown active", versions: testVersions(), active: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.versions, tt.active)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRegistry() error = %v", err)
			}
			wantActive := tt.active
			if wantActive == "" {
				wantActive = tt.versions[0].ID
			}
			if got := r.Active().ID; got != wantActive {
				t.Errorf("Active() = %q, want %q", got, wantActive)
			}
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	r, err := NewRegistry(testVersions(), "")
	if err != nil {
		t.Fatal(err)
	}

	v, err := r.Resolve("large")
	if err != nil {
		t.Fatalf("Resolve(large) error = %v", err)
	}
	if v.MovieEmbSource != "item2vecEmb_large.csv" {
		t.Errorf("Resolve(large).MovieEmbSource = %q", v.MovieEmbSource)
	}

	if _, err := r.Resolve("nope"); !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("Resolve(nope) error = %v, want ErrUnknownVersion", err)
	}
}

func TestRegistrySetActive(t *testing.T) {
	r, err := NewRegistry(testVersions(), "standard")
	if err != nil {
		t.Fatal(err)
	}

	if err := r.SetActive("large"); err != nil {
		t.Fatalf("SetActive(large) error = %v", err)
	}
	if got := r.Active().ID; got != "large" {
		t.Errorf("Active() = %q, want large", got)
	}

	// 未登记的 id 被拒绝且激活版本不变
	if err := r.SetActive("nope"); !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("SetActive(nope) error = %v, want ErrUnknownVersion", err)
	}
	if got := r.Active().ID; got != "large" {
		t.Errorf("Active() after rejected SetActive = %q, want large", got)
	}
}

func TestRegistryList(t *testing.T) {
	r, err := NewRegistry(testVersions(), "large")
	if err != nil {
		t.Fatal(err)
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List() returned %d versions", len(list))
	}
	if list[0].ID != "standard" || list[0].Current {
		t.Errorf("List()[0] = %+v", list[0])
	}
	if list[1].ID != "large" || !list[1].Current {
		t.Errorf("List()[1] = %+v", list[1])
	}
}
