package rubric

import "testing"

func TestSelectedStableOrder(t *testing.T) {
	sel := Selection{Pembroke: true, AITSL: true, VisibleThinking: true}
	got := sel.Selected()
	want := []Identifier{AITSL, VisibleThinking, Pembroke}
	if len(got) != len(want) {
		t.Fatalf("selected count: want %d got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selected[%d]: want %s got %s", i, want[i], got[i])
		}
	}
}

func TestValidateRejectsUnknownIdentifier(t *testing.T) {
	sel := Selection{Identifier("bloom_taxonomy"): true, AITSL: true}
	if err := sel.Validate(); err == nil {
		t.Fatal("expected error for unknown identifier")
	}
}

func TestValidateRejectsEmptySelection(t *testing.T) {
	if err := (Selection{}).Validate(); err == nil {
		t.Fatal("expected error for empty selection")
	}
	// all false is still empty
	sel := Selection{AITSL: false, QTM: false}
	if err := sel.Validate(); err == nil {
		t.Fatal("expected error for all-false selection")
	}
}

func TestAnalysisKeys(t *testing.T) {
	cases := map[Identifier]string{
		AITSL:            "aitsl_analysis",
		QTM:              "quality_teaching",
		VisibleThinking:  "visible_thinking",
		ModernClassrooms: "modern_classrooms",
		Pembroke:         "pembroke_pedagogies",
	}
	for id, want := range cases {
		if got := id.AnalysisKey(); got != want {
			t.Fatalf("AnalysisKey(%s): want %s got %s", id, want, got)
		}
	}
}

func TestCountIgnoresUnknownKeys(t *testing.T) {
	sel := Selection{AITSL: true, Identifier("bogus"): true}
	if got := sel.Count(); got != 1 {
		t.Fatalf("count: want 1 got %d", got)
	}
}
