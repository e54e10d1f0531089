package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/opendash/searchd/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	q, err := New("lamp", nil, DefaultPage, DefaultLimit, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsAll() {
		t.Error("empty entityTypes should mean all")
	}
	if q.SortBy() != SortRelevance {
		t.Errorf("default sort = %q, want relevance", q.SortBy())
	}
	if q.Offset() != 0 {
		t.Errorf("offset = %d, want 0", q.Offset())
	}
}

func TestNew_AllSentinelExpands(t *testing.T) {
	q, err := New("lamp", []string{"all"}, 1, 20, SortRelevance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsAll() {
		t.Error("entityTypes [all] should mean all")
	}
	if len(q.EntityTypes()) != 0 {
		t.Errorf("entityTypes = %v, want empty", q.EntityTypes())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		page   int
		limit  int
		sortBy Sort
	}{
		{"empty text", "", 1, 20, ""},
		{"text too long", strings.Repeat("x", MaxTextLength+1), 1, 20, ""},
		{"page zero", "lamp", 0, 20, ""},
		{"page negative", "lamp", -3, 20, ""},
		{"limit zero", "lamp", 1, 0, ""},
		{"limit above max", "lamp", 1, MaxLimit + 1, ""},
		{"unknown sort", "lamp", 1, 20, Sort("price")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.text, nil, tt.page, tt.limit, tt.sortBy)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Fatalf("err = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestQuery_CandidateBudget(t *testing.T) {
	q, err := New("lamp", nil, 3, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CandidateBudget() != 30 {
		t.Errorf("candidate budget = %d, want 30", q.CandidateBudget())
	}
	if q.Offset() != 20 {
		t.Errorf("offset = %d, want 20", q.Offset())
	}
}

func TestSort_IsValid(t *testing.T) {
	for _, s := range []Sort{SortRelevance, SortDate, SortName} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Sort("score").IsValid() {
		t.Error("unknown sort should be invalid")
	}
}
