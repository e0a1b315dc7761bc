package textimport

import (
	"reflect"
	"testing"
)

func TestSplitOptions(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		wantBody string
		wantOpts []string
	}{
		{
			name:     "line per option",
			block:    "Soru metni?\nA) Bir\nB) Iki\nC) Uc\n",
			wantBody: "Soru metni?",
			wantOpts: []string{"Bir", "Iki", "Uc"},
		},
		{
			name:     "inline options",
			block:    "Soru? A) bir B) iki C) üç D) dört E) beş",
			wantBody: "Soru?",
			wantOpts: []string{"bir", "iki", "üç", "dört", "beş"},
		},
		{
			name:     "multi line option text",
			block:    "Soru?\nA) uzun\nseçenek\nB) kısa",
			wantBody: "Soru?",
			wantOpts: []string{"uzun seçenek", "kısa"},
		},
		{
			name:     "empty piece dropped",
			block:    "Soru? A) B) iki C) üç",
			wantBody: "Soru?",
			wantOpts: []string{"iki", "üç"},
		},
		{
			name:     "no options",
			block:    "sadece gövde metni",
			wantBody: "sadece gövde metni",
			wantOpts: nil,
		},
		{
			name:     "list not started by A",
			block:    "Soru? B) iki C) üç",
			wantBody: "Soru? B) iki C) üç",
			wantOpts: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, opts := SplitOptions(tc.block)
			if body != tc.wantBody {
				t.Fatalf("body: expected %q, got %q", tc.wantBody, body)
			}
			if !reflect.DeepEqual(opts, tc.wantOpts) {
				t.Fatalf("options: expected %v, got %v", tc.wantOpts, opts)
			}
		})
	}
}
