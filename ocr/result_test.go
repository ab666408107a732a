package ocr

import "testing"

func TestResultAccessors(t *testing.T) {
	conf := 0.87
	r := Result{Text: "  Hello World \n", Language: Latin, Confidence: &conf}
	if got := r.TrimmedText(); got != "Hello World" {
		t.Fatalf("TrimmedText() = %q", got)
	}
	if !r.HasText() {
		t.Fatalf("HasText() = false")
	}
	if got := r.ConfidencePercent(); got != 87 {
		t.Fatalf("ConfidencePercent() = %v, want 87", got)
	}
}

func TestResultWithoutConfidence(t *testing.T) {
	r := Result{Text: "   \n\t "}
	if r.HasText() {
		t.Fatalf("whitespace-only text should report no text")
	}
	if got := r.ConfidencePercent(); got != -1 {
		t.Fatalf("ConfidencePercent() = %v, want -1", got)
	}
}

func TestWordAndLineCounts(t *testing.T) {
	cases := []struct {
		text      string
		wantWords int
		wantLines int
	}{
		{"Hello World", 2, 1},
		{"", 0, 0},
		{"   \t\n ", 0, 0},
		{"one\ntwo three\nfour", 4, 3},
		{"  padded   spacing  ", 2, 1},
	}
	for _, c := range cases {
		if got := WordCountOf(c.text); got != c.wantWords {
			t.Errorf("WordCountOf(%q) = %d, want %d", c.text, got, c.wantWords)
		}
		if got := LineCountOf(c.text); got != c.wantLines {
			t.Errorf("LineCountOf(%q) = %d, want %d", c.text, got, c.wantLines)
		}
	}
}

func TestOptionsEquality(t *testing.T) {
	a := Options{Language: Latin, Segmentation: SegmentAuto, Whitelist: "0123456789"}
	b := Options{Language: Latin, Segmentation: SegmentAuto, Whitelist: "0123456789"}
	if a != b {
		t.Fatalf("identical options should compare equal")
	}
	b.Deskew = true
	if a == b {
		t.Fatalf("differing options should not compare equal")
	}
}
