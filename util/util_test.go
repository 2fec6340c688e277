package util

import (
	"net/url"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{512, "512B"},
		{2048, "2.0KiB"},
		{3 * MiB / 2, "1.5MiB"},
		{2 * GiB, "2.0GiB"},
	}

	for _, test := range tests {
		if got := FormatBytes(test.bytes); got != test.expected {
			t.Errorf("FormatBytes(%d) = %s, want %s", test.bytes, got, test.expected)
		}
	}
}

func TestURLSlug(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{
			name:     "course page",
			link:     "https://omscs.gatech.edu/cs-6200-introduction-operating-systems",
			expected: "cs-6200-introduction-operating-systems",
		},
		{
			name:     "trailing slash",
			link:     "https://omscs.gatech.edu/specialization-machine-learning/",
			expected: "specialization-machine-learning",
		},
		{
			name:     "numeric segment skipped",
			link:     "https://example.com/courses/12345",
			expected: "courses",
		},
		{
			name:     "host only",
			link:     "https://www.omscs.gatech.edu",
			expected: "omscs-gatech-edu",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			u, err := url.Parse(test.link)
			if err != nil {
				t.Fatal(err)
			}

			if got := URLSlug(u); got != test.expected {
				t.Errorf("unexpected slug: %s", got)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(` CS 6200: Intro/OS? `); got != "CS 6200- Intro-OS-" {
		t.Errorf("unexpected file name: %q", got)
	}
}
