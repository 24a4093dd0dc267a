package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "Recife", expected: "Recife"},
		{name: "accents survive", input: "Brasília", expected: "Brasília"},
		{name: "ampersand survives", input: "Rock & Roll", expected: "Rock & Roll"},
		{name: "script removed", input: `Expo <script>alert('x')</script>XP`, expected: "Expo XP"},
		{name: "tags only", input: "<b> </b>", expected: ""},
		{name: "trimmed", input: "  Recife \t", expected: "Recife"},
		{name: "lt before letter opens a tag", input: "Tom<Jerry", expected: "Tom"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.expected {
				t.Fatalf("Text(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsPlain(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "Recife", want: true},
		{input: "  São Paulo  ", want: true},
		{input: "Rock & Roll", want: true},
		{input: "1 < 2", want: true},
		{input: "Tom<Jerry", want: false},
		{input: "Feira <Tech> Sul", want: false},
		{input: "<b>CCXP</b>", want: false},
		{input: "", want: true},
	}

	for _, tt := range tests {
		if got := IsPlain(tt.input); got != tt.want {
			t.Fatalf("IsPlain(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
