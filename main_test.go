package main

import "testing"

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"bare id", "abc123xyz00", "abc123xyz00"},
		{"watch url", "https://www.youtube.com/watch?v=abc123xyz00", "abc123xyz00"},
		{"watch url with extras", "https://www.youtube.com/watch?v=abc123xyz00&t=12s", "abc123xyz00"},
		{"short link", "https://youtu.be/abc123xyz00", "abc123xyz00"},
		{"short link with query", "https://youtu.be/abc123xyz00?t=1", "abc123xyz00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseVideoID(tt.arg); got != tt.want {
				t.Errorf("parseVideoID() = %v, want %v", got, tt.want)
			}
		})
	}
}
