package tag

import (
	"reflect"
	"testing"
)

func TestTokens(t *testing.T) {
	n := New(0)

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "lowercases",
			in:   []string{"Gundam", "ANIME"},
			want: []string{"gundam", "anime"},
		},
		{
			name: "drops stopwords",
			in:   []string{"the", "gundam", "and", "robot"},
			want: []string{"gundam", "robot"},
		},
		{
			name: "drops short tokens",
			in:   []string{"go", "ai", "art"},
			want: []string{"art"},
		},
		{
			name: "trims whitespace",
			in:   []string{"  photo  "},
			want: []string{"photo"},
		},
		{
			name: "empty input",
			in:   nil,
			want: []string{},
		},
		{
			name: "all filtered",
			in:   []string{"the", "is", "a"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Tokens(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	n := New(0)

	got := n.Query("The Best Gundam Wallpapers")
	want := []string{"best", "gundam", "wallpapers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Query = %v, want %v", got, want)
	}

	if got := n.Query("the is a"); len(got) != 0 {
		t.Errorf("expected all-stopword query to normalize to zero tokens, got %v", got)
	}
}

func TestText(t *testing.T) {
	n := New(0)

	if got := n.Text([]string{"Gundam", "the", "Anime"}); got != "gundam anime" {
		t.Errorf("Text = %q, want %q", got, "gundam anime")
	}
	if got := n.Text(nil); got != "" {
		t.Errorf("Text(nil) = %q, want empty", got)
	}
}

func TestCustomMinLen(t *testing.T) {
	n := New(3)

	got := n.Tokens([]string{"art", "arts"})
	want := []string{"arts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}
