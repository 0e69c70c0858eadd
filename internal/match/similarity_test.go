package match

import (
	"math"
	"testing"
)

func TestJaccard(t *testing.T) {
	tc := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical strings", "breathe in the air", "breathe in the air", 1},
		{"both empty", "", "", 1},
		{"one empty", "breathe", "", 0},
		{"punctuation only differs", "Breathe (In the Air)", "breathe in the air", 1},
		{"case only differs", "BREATHE", "breathe", 1},
		{"disjoint", "speak to me", "money", 0},
		{"partial overlap", "hello world", "hello there", 1.0 / 3.0},
		{"duplicate tokens collapse", "la la la", "la", 1},
		{"hyphens split tokens", "half-light", "half light", 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	t.Run("symmetric", func(t *testing.T) {
		a, b := "breathe pink floyd", "breathe in the air pink floyd"
		if Jaccard(a, b) != Jaccard(b, a) {
			t.Errorf("expected symmetry, got %v and %v", Jaccard(a, b), Jaccard(b, a))
		}
	})

	t.Run("unrelated tokens shrink similarity monotonically", func(t *testing.T) {
		base := "breathe pink floyd"
		padded := base
		prev := Jaccard(base, base)
		for _, noise := range []string{"remastered", "live", "1973"} {
			padded += " " + noise
			got := Jaccard(padded, base)
			if got >= prev {
				t.Fatalf("similarity should shrink as noise accumulates: %v then %v after %q", prev, got, noise)
			}
			prev = got
		}
	})
}
