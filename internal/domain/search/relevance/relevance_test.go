package relevance

import "testing"

func TestScore_PrimaryTiers(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		primary string
		want    float64
	}{
		{"exact", "aurora desk lamp", "Aurora Desk Lamp", PrimaryExact},
		{"prefix", "aurora", "Aurora Desk Lamp", PrimaryPrefix},
		{"contains", "desk", "Aurora Desk Lamp", PrimaryContains},
		{"no match", "chair", "Aurora Desk Lamp", 0},
		{"empty field", "aurora", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.query, Fields{Primary: tt.primary})
			if got != tt.want {
				t.Errorf("Score(%q) = %f, want %f", tt.query, got, tt.want)
			}
		})
	}
}

func TestScore_SecondaryTiers(t *testing.T) {
	if got := Score("sku-aur-1001", Fields{Secondary: "SKU-AUR-1001"}); got != SecondaryExact {
		t.Errorf("exact secondary = %f, want %f", got, SecondaryExact)
	}
	if got := Score("aur", Fields{Secondary: "SKU-AUR-1001"}); got != SecondaryContains {
		t.Errorf("secondary contains = %f, want %f", got, SecondaryContains)
	}
}

func TestScore_LongFormTiers(t *testing.T) {
	if got := Score("adjustable", Fields{Excerpt: "Warm LED lamp with adjustable arm."}); got != ExcerptContains {
		t.Errorf("excerpt contains = %f, want %f", got, ExcerptContains)
	}
	if got := Score("weighted", Fields{Body: "A weighted base keeps it stable."}); got != BodyContains {
		t.Errorf("body contains = %f, want %f", got, BodyContains)
	}
}

// Fields are additive: a record matching on several axes must outrank one
// matching on a single axis.
func TestScore_Additive(t *testing.T) {
	f := Fields{
		Primary:   "Aurora Desk Lamp",
		Secondary: "aurora-desk-lamp",
		Excerpt:   "The Aurora lamp in short.",
		Body:      "Everything about the Aurora lamp.",
	}
	want := PrimaryPrefix + SecondaryContains + ExcerptContains + BodyContains
	if got := Score("aurora", f); got != want {
		t.Errorf("Score = %f, want %f", got, want)
	}
}

func TestScore_BestTierPerField(t *testing.T) {
	// An exact primary match also prefixes and contains; only the top tier counts.
	if got := Score("lamp", Fields{Primary: "Lamp"}); got != PrimaryExact {
		t.Errorf("Score = %f, want %f", got, PrimaryExact)
	}
}

func TestScore_EmptyQuery(t *testing.T) {
	if got := Score("   ", Fields{Primary: "anything"}); got != 0 {
		t.Errorf("Score = %f, want 0", got)
	}
}

func TestMatches(t *testing.T) {
	f := Fields{Primary: "Aurora Desk Lamp", Body: "weighted base"}
	if !Matches("WEIGHTED", f) {
		t.Error("case-insensitive body match expected")
	}
	if Matches("chair", f) {
		t.Error("no field contains the query")
	}
	if Matches("", f) {
		t.Error("empty query never matches")
	}
}
