package feed

import (
	"testing"
)

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"first img wins", `<p>text</p><img src="https://example.com/a.png"/><img src="https://example.com/b.png"/>`, "https://example.com/a.png"},
		{"no img", `<p>just text</p>`, ""},
		{"empty input", "", ""},
		{"img without src", `<img alt="broken"/>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractImageURL(tt.html); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Hello   <b>world</b></p>\n<p>again</p>")
	if got != "Hello world again" {
		t.Errorf("Expected 'Hello world again', got %q", got)
	}
}
