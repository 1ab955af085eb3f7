package core

import (
	"reflect"
	"testing"
)

func TestParseEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Embedding
		wantErr bool
	}{
		{name: "plain vector", in: "0.1,0.2,-0.3", want: Embedding{0.1, 0.2, -0.3}},
		{name: "single component", in: "1.5", want: Embedding{1.5}},
		{name: "spaces around tokens", in: " 0.1 , 0.2 ", want: Embedding{0.1, 0.2}},
		{name: "scientific notation", in: "1e-3,2E2", want: Embedding{0.001, 200}},
		{name: "empty string", in: "", wantErr: true},
		{name: "bad token aborts whole vector", in: "0.1,oops,0.3", wantErr: true},
		{name: "trailing comma", in: "0.1,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmbedding(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !IsMalformed(err) {
					t.Errorf("error = %v, want MALFORMED", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEmbedding() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmbeddingString(t *testing.T) {
	e := Embedding{0.1, -0.5, 2}
	round, err := ParseEmbedding(e.String())
	if err != nil {
		t.Fatalf("round trip error = %v", err)
	}
	if !reflect.DeepEqual(round, e) {
		t.Errorf("round trip = %v, want %v", round, e)
	}

	var empty Embedding
	if got := empty.String(); got != "" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestEmbeddingClone(t *testing.T) {
	e := Embedding{1, 2, 3}
	c := e.Clone()
	c[0] = 99
	if e[0] != 1 {
		t.Error("Clone() must not share backing array")
	}
	if Embedding(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
	if e.Dim() != 3 {
		t.Errorf("Dim() = %d, want 3", e.Dim())
	}
}
