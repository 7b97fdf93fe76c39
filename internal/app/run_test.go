package app

import (
	"errors"
	"testing"
)

func TestNewRun(t *testing.T) {
	r := NewRun("run-1", "import")

	if r.RunID != "run-1" || r.Mode != "import" {
		t.Errorf("NewRun() = %+v", r)
	}
	if r.Status != "success" {
		t.Errorf("Status = %q, want %q", r.Status, "success")
	}
	if r.ID != 0 {
		t.Errorf("ID = %d, want 0", r.ID)
	}
}

func TestRun_Persisted(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want bool
	}{
		{name: "not persisted when ID is 0", id: 0, want: false},
		{name: "persisted when ID is positive", id: 1, want: true},
		{name: "persisted when ID is large", id: 99999, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Run{ID: tt.id}
			if got := r.Persisted(); got != tt.want {
				t.Errorf("Persisted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_Fail(t *testing.T) {
	r := NewRun("run-1", "index")
	r.Fail(nil)
	if r.Status != "success" {
		t.Errorf("Fail(nil) changed status to %q", r.Status)
	}
	r.Fail(errors.New("boom"))
	if r.Status != "error" {
		t.Errorf("Status = %q, want %q", r.Status, "error")
	}
}
