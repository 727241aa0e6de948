package storage

import (
	"context"
	"errors"
	"testing"
)

// A nil store disables history without breaking callers.
func TestNilStoreIsTolerated(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if err := s.Save(ctx, &Record{Segmento: "fitness"}); err != nil {
		t.Errorf("Save on nil store = %v, want nil", err)
	}
	if list, err := s.List(ctx, 10); err != nil || list != nil {
		t.Errorf("List on nil store = %v, %v", list, err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on nil store = %v, want ErrNotFound", err)
	}
	if _, err := s.Latest(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest on nil store = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete on nil store = %v, want ErrNotFound", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store = %v, want nil", err)
	}
}
