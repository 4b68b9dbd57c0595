package protocheck

import (
	"strings"
	"testing"
)

func TestSimilaritySymmetry(t *testing.T) {
	a := tokenSet("the study enrolls adult patients with confirmed disease")
	b := tokenSet("adult patients with confirmed disease receive treatment")
	if similarity(a, b) != similarity(b, a) {
		t.Fatalf("similarity not symmetric: %v vs %v", similarity(a, b), similarity(b, a))
	}
}

func TestSimilarityIdentity(t *testing.T) {
	a := tokenSet("identical section text repeated verbatim")
	if got := similarity(a, a); got != 1.0 {
		t.Fatalf("self similarity = %v, want 1.0", got)
	}
}

func TestSimilarityEmptySet(t *testing.T) {
	if got := similarity(tokenSet(""), tokenSet("some text")); got != 0 {
		t.Fatalf("similarity with empty set = %v, want 0", got)
	}
}

func TestDetectDuplicationIdenticalSectionsAlwaysFlagged(t *testing.T) {
	text := "the study will enroll two hundred patients across twelve sites"
	issues := DetectDuplication(map[string]string{
		"synopsis":   text,
		"background": text,
	})
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Severity != SeverityMinor {
		t.Fatalf("synopsis pair severity = %s, want MINOR", issues[0].Severity)
	}
}

func TestDetectDuplicationSynopsisThreshold(t *testing.T) {
	// 9 of 10 tokens shared: similarity 0.9, above the 0.8 synopsis
	// threshold.
	base := "alpha beta gamma delta epsilon zeta eta theta iota"
	issues := DetectDuplication(map[string]string{
		"synopsis":   base + " kappa",
		"background": base + " lambda",
	})
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Severity != SeverityMinor {
		t.Fatalf("severity = %s, want MINOR", issues[0].Severity)
	}
	if !strings.Contains(issues[0].Message, "0.90") {
		t.Fatalf("message should report similarity 0.90: %s", issues[0].Message)
	}
}

func TestDetectDuplicationGeneralThreshold(t *testing.T) {
	// 13 of 20 tokens shared: similarity 0.65, above the 0.6 general
	// threshold but below 0.8.
	shared := "a b c d e f g h i j k l m"
	issues := DetectDuplication(map[string]string{
		"background": shared + " n1 n2 n3 n4 n5 n6 n7",
		"rationale":  shared + " m1 m2 m3 m4 m5 m6 m7",
	})
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Severity != SeverityMajor {
		t.Fatalf("severity = %s, want MAJOR", issues[0].Severity)
	}
	if !strings.Contains(issues[0].Message, "background") || !strings.Contains(issues[0].Message, "rationale") {
		t.Fatalf("message should name both sections: %s", issues[0].Message)
	}
}

func TestDetectDuplicationBelowThreshold(t *testing.T) {
	issues := DetectDuplication(map[string]string{
		"background": "one two three four five six seven eight nine ten",
		"safety":     "one two eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen",
	})
	if len(issues) != 0 {
		t.Fatalf("issues = %d, want 0", len(issues))
	}
}

func TestDetectDuplicationSameSynopsisPairNotAtGeneralThreshold(t *testing.T) {
	// 0.65 overlap involving the synopsis stays under its 0.8 threshold.
	shared := "a b c d e f g h i j k l m"
	issues := DetectDuplication(map[string]string{
		"synopsis":   shared + " n1 n2 n3 n4 n5 n6 n7",
		"background": shared + " m1 m2 m3 m4 m5 m6 m7",
	})
	if len(issues) != 0 {
		t.Fatalf("issues = %d, want 0", len(issues))
	}
}

func TestDetectDuplicationDeterministicOrder(t *testing.T) {
	text := "shared words across every section of this protocol document"
	sections := map[string]string{"c": text, "a": text, "b": text}
	first := DetectDuplication(sections)
	for i := 0; i < 5; i++ {
		again := DetectDuplication(sections)
		if len(again) != len(first) {
			t.Fatalf("run %d: issues = %d, want %d", i, len(again), len(first))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: issue %d differs: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
	if len(first) != 3 {
		t.Fatalf("issues = %d, want 3 pairs", len(first))
	}
	if !strings.Contains(first[0].Message, "'a' and 'b'") {
		t.Fatalf("pairs not in sorted order: %s", first[0].Message)
	}
}

func TestTokenSetSplitsOnPunctuation(t *testing.T) {
	set := tokenSet("Visit 1: screening, visit 2; treatment.")
	for _, want := range []string{"visit", "1", "screening", "2", "treatment"} {
		if _, ok := set[want]; !ok {
			t.Fatalf("token %q missing from %v", want, set)
		}
	}
	if len(set) != 5 {
		t.Fatalf("token count = %d, want 5", len(set))
	}
}
