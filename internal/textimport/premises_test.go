package textimport

import (
	"reflect"
	"testing"
)

func TestExtractPremisesPassThrough(t *testing.T) {
	got := ExtractPremises("  Roma rakamı içermeyen soru gövdesi?  ")
	want := ParsedBody{QuestionStem: "Roma rakamı içermeyen soru gövdesi?"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestExtractPremisesMultiline(t *testing.T) {
	body := "Giris cumlesi.\nI. Birinci\nII. Ikinci\nIII. Ucuncu hangisi dogrudur?"
	got := ExtractPremises(body)

	if got.ContextText != "Giris cumlesi." {
		t.Fatalf("context = %q", got.ContextText)
	}
	if got.QuestionStem != "hangisi dogrudur?" {
		t.Fatalf("stem = %q", got.QuestionStem)
	}
	want := []string{"Birinci", "Ikinci", "Ucuncu"}
	if !reflect.DeepEqual(got.PremiseItems, want) {
		t.Fatalf("items: expected %v, got %v", want, got.PremiseItems)
	}
}

func TestExtractPremisesMultilineKeywordPriority(t *testing.T) {
	body := "I. Bir\nII. Iki\nIII. Üç yargılarından hangileri söylenebilir?"
	got := ExtractPremises(body)

	if got.QuestionStem != "yargılarından hangileri söylenebilir?" {
		t.Fatalf("stem = %q", got.QuestionStem)
	}
	if got.PremiseItems[2] != "Üç" {
		t.Fatalf("last item = %q", got.PremiseItems[2])
	}
}

func TestExtractPremisesInline(t *testing.T) {
	body := "Osmanlı Devleti'nde I. Tımar, II. Devşirme, III. İltizam uygulamaları verilmiştir. Bunlardan hangileri ekonomiyle ilgilidir?"
	got := ExtractPremises(body)

	if got.ContextText != "Osmanlı Devleti'nde" {
		t.Fatalf("context = %q", got.ContextText)
	}
	wantItems := []string{"Tımar", "Devşirme"}
	if !reflect.DeepEqual(got.PremiseItems[:2], wantItems) {
		t.Fatalf("items: expected %v, got %v", wantItems, got.PremiseItems[:2])
	}
	if got.QuestionStem != "hangileri ekonomiyle ilgilidir?" {
		t.Fatalf("stem = %q", got.QuestionStem)
	}
	if got.PremiseItems[2] != "İltizam uygulamaları verilmiştir. Bunlardan" {
		t.Fatalf("last item = %q", got.PremiseItems[2])
	}
}

func TestExtractPremisesInlineTrailingCommas(t *testing.T) {
	body := "Savaş sonrası I. Londra, II. Paris, III. Roma şehirlerinden hangisinde kongre toplanmıştır?"
	got := ExtractPremises(body)

	if got.PremiseItems[0] != "Londra" || got.PremiseItems[1] != "Paris" {
		t.Fatalf("items = %v", got.PremiseItems)
	}
	if got.QuestionStem != "hangisinde kongre toplanmıştır?" {
		t.Fatalf("stem = %q", got.QuestionStem)
	}
	if got.PremiseItems[2] != "Roma şehirlerinden" {
		t.Fatalf("last item = %q", got.PremiseItems[2])
	}
}

func TestExtractPremisesKeywordMissFallsBackToContext(t *testing.T) {
	body := "Asagidakiler verilmistir.\nI. Bir\nII. Iki tanesi nelerdir?"
	got := ExtractPremises(body)

	if got.QuestionStem != "Asagidakiler verilmistir." {
		t.Fatalf("stem = %q", got.QuestionStem)
	}
	if got.ContextText != "" {
		t.Fatalf("context must be suppressed in fallback, got %q", got.ContextText)
	}
	want := []string{"Bir", "Iki tanesi nelerdir?"}
	if !reflect.DeepEqual(got.PremiseItems, want) {
		t.Fatalf("items: expected %v, got %v", want, got.PremiseItems)
	}
}

func TestExtractPremisesNoContextFallsBackToLastItem(t *testing.T) {
	body := "I. Bir\nII. Iki"
	got := ExtractPremises(body)

	if got.QuestionStem != "Iki" {
		t.Fatalf("stem = %q", got.QuestionStem)
	}
	if got.ContextText != "" {
		t.Fatalf("context must be absent, got %q", got.ContextText)
	}
}

func TestExtractPremisesLayoutDiscrimination(t *testing.T) {
	multiline := ExtractPremises("I. Bir\nII. Iki hangisi dogrudur?")
	if multiline.QuestionStem != "hangisi dogrudur?" {
		t.Fatalf("multiline stem = %q", multiline.QuestionStem)
	}

	// Inline markers never start a line, so items end at the next marker
	// wherever it sits.
	inline := ExtractPremises("Önce I. Bir, sonra II. Iki hangisi dogrudur?")
	if inline.ContextText != "Önce" {
		t.Fatalf("inline context = %q", inline.ContextText)
	}
	if inline.PremiseItems[0] != "Bir, sonra" {
		t.Fatalf("inline items = %v", inline.PremiseItems)
	}
}
