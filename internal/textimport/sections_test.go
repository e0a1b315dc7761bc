package textimport

import (
	"strings"
	"testing"
)

func TestSplitSectionsNumberedSolutionWins(t *testing.T) {
	text := "1. Soru?\nA) a\nB) b\n\n1. ÇÖZÜM: açıklama CEVAP: A"
	questions, solutions := SplitSections(text)
	if !strings.Contains(questions, "Soru?") || strings.Contains(questions, "ÇÖZÜM") {
		t.Fatalf("unexpected question section %q", questions)
	}
	if !strings.HasPrefix(solutions, "1. ÇÖZÜM") {
		t.Fatalf("unexpected solution section %q", solutions)
	}
}

func TestSplitSectionsHeaderFallback(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "plural upper", header: "ÇÖZÜMLER"},
		{name: "singular lower", header: "çözüm"},
		{name: "padded", header: "  ÇÖZÜMLER  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text := "1. Soru?\nA) a\nB) b\n" + tc.header + "\ngeri kalanı"
			questions, solutions := SplitSections(text)
			if strings.Contains(questions, "geri kalanı") {
				t.Fatalf("solution content leaked into question section %q", questions)
			}
			if !strings.Contains(solutions, "geri kalanı") {
				t.Fatalf("expected solution content, got %q", solutions)
			}
		})
	}
}

func TestSplitSectionsNoBoundary(t *testing.T) {
	text := "1. Soru?\nA) a\nB) b\n"
	questions, solutions := SplitSections(text)
	if questions != text {
		t.Fatalf("expected whole text as question section, got %q", questions)
	}
	if solutions != "" {
		t.Fatalf("expected empty solution section, got %q", solutions)
	}
}

func TestIndexSolutions(t *testing.T) {
	section := "1. ÇÖZÜM: Aciklama metni CEVAP: B\n" +
		"2. ÇÖZÜM: satır bir\nsatır   iki CEVAP: D\n" +
		"3. ÇÖZÜM: harf geçersiz CEVAP: F\n"

	entries := IndexSolutions(section)

	if got := entries[1]; got.Answer != "B" || got.Explanation != "Aciklama metni" {
		t.Fatalf("entry 1 = %+v", got)
	}
	if got := entries[2]; got.Answer != "D" || got.Explanation != "satır bir satır iki" {
		t.Fatalf("entry 2 = %+v", got)
	}
	if _, ok := entries[3]; ok {
		t.Fatalf("entry with non A-E letter should be skipped")
	}
}

func TestIndexSolutionsLastWriteWins(t *testing.T) {
	section := "7. ÇÖZÜM: ilk CEVAP: A\n7. ÇÖZÜM: son CEVAP: C\n"
	entries := IndexSolutions(section)
	got, ok := entries[7]
	if !ok {
		t.Fatalf("expected entry for 7")
	}
	if got.Answer != "C" || got.Explanation != "son" {
		t.Fatalf("expected later match to win, got %+v", got)
	}
}

func TestIndexSolutionsMalformedEntryDoesNotSwallowNext(t *testing.T) {
	section := "3. ÇÖZÜM: harf geçersiz CEVAP: F\n4. ÇÖZÜM: doğru açıklama CEVAP: A\n"
	entries := IndexSolutions(section)
	if _, ok := entries[3]; ok {
		t.Fatalf("malformed entry 3 should be skipped, got %+v", entries[3])
	}
	got, ok := entries[4]
	if !ok {
		t.Fatalf("entry 4 lost, entries = %v", entries)
	}
	if got.Answer != "A" || got.Explanation != "doğru açıklama" {
		t.Fatalf("entry 4 = %+v", got)
	}
}

func TestIndexSolutionsMissingAnswerMarker(t *testing.T) {
	entries := IndexSolutions("4. ÇÖZÜM: cevabı unutulmuş açıklama")
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %v", entries)
	}
}
