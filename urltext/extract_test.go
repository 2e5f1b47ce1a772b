package urltext

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"no urls", "hello there", nil},
		{"single url", "check https://example.com/page out", []string{"https://example.com/page"}},
		{"trailing punctuation trimmed", "see https://example.com/a.", []string{"https://example.com/a"}},
		{"multiple urls", "http://a.example and https://b.example/x?y=1", []string{"http://a.example", "https://b.example/x?y=1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	got := Union(
		[]string{"https://a.example", "https://b.example"},
		[]string{"https://b.example", "", "https://c.example"},
	)
	want := []string{"https://a.example", "https://b.example", "https://c.example"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Union = %v, want %v", got, want)
	}
}
