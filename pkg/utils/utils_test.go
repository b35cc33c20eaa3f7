package utils

import (
	"testing"
	"time"
)

func TestNormalizeQuestion(t *testing.T) {
	u := New()

	cases := []struct {
		in   string
		want string
	}{
		{"When is  THE exam ", "when is the exam"},
		{"  hello\tworld  ", "hello world"},
		{"already normalized", "already normalized"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := u.NormalizeQuestion(tc.in); got != tc.want {
			t.Errorf("NormalizeQuestion(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitJoinKeywords(t *testing.T) {
	u := New()

	joined := u.JoinKeywords([]string{" exam ", "", "schedule", "date"})
	if joined != "exam,schedule,date" {
		t.Fatalf("JoinKeywords = %q", joined)
	}

	split := u.SplitKeywords("exam, schedule ,,date")
	if len(split) != 3 || split[0] != "exam" || split[1] != "schedule" || split[2] != "date" {
		t.Fatalf("SplitKeywords = %v", split)
	}

	if u.SplitKeywords("   ") != nil {
		t.Fatal("blank input should split to nil")
	}
}

func TestNewULIDFromTimestampIsSortable(t *testing.T) {
	u := New()

	earlier, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("ulid generation failed: %v", err)
	}
	later, err := u.NewULIDFromTimestamp(time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("ulid generation failed: %v", err)
	}

	if len(earlier) != 26 || len(later) != 26 {
		t.Fatalf("unexpected ulid lengths: %d, %d", len(earlier), len(later))
	}
	if earlier >= later {
		t.Fatalf("ulids not time ordered: %s >= %s", earlier, later)
	}
}
