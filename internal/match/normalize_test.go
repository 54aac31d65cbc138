package match

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "the\t quick \n brown", "the quick brown"},
		{"strips punctuation", "Section 4.2(a): “Termination”!", "section 42a termination"},
		{"lowercases", "The PARTIES Agree", "the parties agree"},
		{"trims", "   herein.   ", "herein"},
		{"empty", "", ""},
		{"only punctuation", "---***---", ""},
		{"strips accented letters", "café exposé", "caf expos"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSearchTerms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"drops short words", "parties agree to terms", []string{"parties", "agree", "terms"}},
		{"dedupes repeated words", "notice of notice periods", []string{"notice", "periods"}},
		{"empty snippet", "", nil},
		{"all short words", "to be or is it", nil},
		{"punctuation removed before split", "set-forth herein.", []string{"setforth", "herein"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SearchTerms(tc.in)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SearchTerms(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
