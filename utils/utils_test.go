package utils

import "testing"

func TestRemoveIllegalChar(t *testing.T) {
	type args struct {
		Title string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{"emoji", args{Title: "👿1"}, "1"},
		{"slashes", args{Title: "a/b\\c"}, "a_b_c"},
		{"pipes and colons", args{Title: "live|12:00?"}, "live_12_00_"},
		{"plain", args{Title: "plain title"}, "plain title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveIllegalChar(tt.args.Title); got != tt.want {
				t.Errorf("RemoveIllegalChar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRPartition(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		sep   string
		want2 string
	}{
		{"func name", "pkg.sub.Func", ".", "Func"},
		{"no sep", "Func", ".", "Func"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, got := RPartition(tt.s, tt.sep)
			if got != tt.want2 {
				t.Errorf("RPartition() last = %v, want %v", got, tt.want2)
			}
		})
	}
}

func TestAddSuffix(t *testing.T) {
	got := AddSuffix("/tmp/rec/video.ts", "1")
	if got != "/tmp/rec/video_1.ts" {
		t.Errorf("AddSuffix() = %v", got)
	}
}
