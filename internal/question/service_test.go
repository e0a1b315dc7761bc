package question

import (
	"reflect"
	"testing"
)

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name         string
		stem         string
		options      []string
		correctIndex int
		wantErr      bool
	}{
		{name: "ok three options", stem: "Soru?", options: []string{"Bir", "Iki", "Uc"}, correctIndex: 2},
		{name: "ok two options", stem: "Soru?", options: []string{"Dogru", "Yanlis"}, correctIndex: 0},
		{name: "empty stem", stem: "  ", options: []string{"Bir", "Iki"}, correctIndex: 0, wantErr: true},
		{name: "single option", stem: "Soru?", options: []string{"Bir"}, correctIndex: 0, wantErr: true},
		{name: "too many options", stem: "Soru?", options: []string{"1", "2", "3", "4", "5", "6"}, correctIndex: 0, wantErr: true},
		{name: "blank option", stem: "Soru?", options: []string{"Bir", "   "}, correctIndex: 0, wantErr: true},
		{name: "index negative", stem: "Soru?", options: []string{"Bir", "Iki"}, correctIndex: -1, wantErr: true},
		{name: "index out of range", stem: "Soru?", options: []string{"Bir", "Iki"}, correctIndex: 2, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateQuestion(tc.stem, tc.options, tc.correctIndex)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestEncodeDecodeStringList(t *testing.T) {
	raw, err := encodeStringList([]string{"Tımar", "Devşirme"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodeStringList(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(out, []string{"Tımar", "Devşirme"}) {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestDecodeStringListEmpty(t *testing.T) {
	for _, raw := range []string{"", "[]", "  "} {
		out, err := decodeStringList(raw)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if out != nil {
			t.Fatalf("decode %q = %v, want nil", raw, out)
		}
	}
}

func TestEncodeStringListEmpty(t *testing.T) {
	raw, err := encodeStringList(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw != "[]" {
		t.Fatalf("encode(nil) = %q, want []", raw)
	}
}

func TestTrimAll(t *testing.T) {
	got := trimAll([]string{" Bir ", "", "  ", "Iki"})
	if !reflect.DeepEqual(got, []string{"Bir", "Iki"}) {
		t.Fatalf("trimAll = %v", got)
	}
	if trimAll(nil) != nil {
		t.Fatalf("trimAll(nil) should be nil")
	}
	if trimAll([]string{" ", ""}) != nil {
		t.Fatalf("trimAll of blanks should be nil")
	}
}

func TestOptionLetter(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{4, "E"},
		{5, ""},
		{-1, ""},
	}
	for _, tc := range tests {
		if got := optionLetter(tc.index); got != tc.want {
			t.Errorf("optionLetter(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}

func TestPreviewImportParsesWithoutPersisting(t *testing.T) {
	svc := &Service{}

	preview := svc.PreviewImport("1. Soru metni?\nA) Bir\nB) Iki\n\n1. ÇÖZÜM: Açıklama CEVAP: B")
	if preview.BatchID == "" {
		t.Fatalf("expected batch id")
	}
	if len(preview.Questions) != 1 {
		t.Fatalf("expected 1 parsed question, got %d", len(preview.Questions))
	}
	if preview.Questions[0].CorrectOptionIndex != 1 {
		t.Fatalf("CorrectOptionIndex = %d, want 1", preview.Questions[0].CorrectOptionIndex)
	}
	if preview.Report.Parsed != 1 {
		t.Fatalf("report = %+v", preview.Report)
	}

	again := svc.PreviewImport("1. Soru metni?\nA) Bir\nB) Iki")
	if again.BatchID == preview.BatchID {
		t.Fatalf("batch ids should differ between previews")
	}
}
