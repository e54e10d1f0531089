package registry

import (
	"context"
	"reflect"
	"testing"

	"github.com/opendash/searchd/internal/domain/search/provider"
	"github.com/opendash/searchd/internal/domain/search/result"
)

type stubProvider struct {
	entityType string
}

func (s *stubProvider) EntityType() string         { return s.entityType }
func (s *stubProvider) RequiredPermission() string { return s.entityType + ".read" }

func (s *stubProvider) Search(ctx context.Context, text string, opts provider.Options) ([]result.Item, error) {
	return nil, nil
}

func (s *stubProvider) Count(ctx context.Context, text string) (int, error) {
	return 0, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New(nil)
	p := &stubProvider{entityType: "products"}
	r.Register(p)

	got, ok := r.Get("products")
	if !ok {
		t.Fatal("provider not found after Register")
	}
	if got != provider.Provider(p) {
		t.Error("Get returned a different provider")
	}
	if _, ok := r.Get("posts"); ok {
		t.Error("Get reported an unregistered type")
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := New(nil)
	first := &stubProvider{entityType: "products"}
	second := &stubProvider{entityType: "products"}
	r.Register(first)
	r.Register(second)

	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	got, _ := r.Get("products")
	if got != provider.Provider(second) {
		t.Error("last registration should win")
	}
}

func TestRegistry_GetManyDropsUnknown(t *testing.T) {
	r := New(nil)
	r.Register(&stubProvider{entityType: "products"})
	r.Register(&stubProvider{entityType: "posts"})

	got := r.GetMany([]string{"products", "comments", "posts"})
	if len(got) != 2 {
		t.Fatalf("got %d providers, want 2", len(got))
	}
}

func TestRegistry_AllTypesSorted(t *testing.T) {
	r := New(nil)
	for _, et := range []string{"posts", "products", "pages"} {
		r.Register(&stubProvider{entityType: et})
	}

	want := []string{"pages", "posts", "products"}
	if got := r.AllTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllTypes = %v, want %v", got, want)
	}

	all := r.All()
	for i, p := range all {
		if p.EntityType() != want[i] {
			t.Errorf("All[%d] = %q, want %q", i, p.EntityType(), want[i])
		}
	}
}

func TestRegistry_HasType(t *testing.T) {
	r := New(nil)
	r.Register(&stubProvider{entityType: "pages"})
	if !r.HasType("pages") {
		t.Error("HasType should report registered type")
	}
	if r.HasType("products") {
		t.Error("HasType should not report unregistered type")
	}
}
