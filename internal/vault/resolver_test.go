package vault

import "testing"

func TestFileMatches(t *testing.T) {
	cases := []struct {
		ref, target string
		want        bool
	}{
		{"notes/topic", "notes/topic", true},
		{"topic", "notes/topic", true},
		{"topic", "notes/other", false},
		{"other/topic", "notes/topic", false},
		{"My%20Note", "notes/My Note", true},
	}
	for _, c := range cases {
		got := fileMatches(c.ref, c.target)
		if got != c.want {
			t.Errorf("fileMatches(%q, %q) = %v, want %v", c.ref, c.target, got, c.want)
		}
	}
}

func TestTagPrefixMatches(t *testing.T) {
	cases := []struct {
		ref, tag string
		want     bool
	}{
		{"area", "area", true},
		{"area", "area/sub", true},
		{"area", "area/sub/deeper", true},
		{"area/sub", "area", false},
		{"other", "area/sub", false},
	}
	for _, c := range cases {
		got := tagPrefixMatches(c.ref, c.tag)
		if got != c.want {
			t.Errorf("tagPrefixMatches(%q, %q) = %v, want %v", c.ref, c.tag, got, c.want)
		}
	}
}

func TestInfileMatches(t *testing.T) {
	if !infileMatches("Heading", "Heading") {
		t.Error("expected exact infile match")
	}
	if infileMatches("Heading", "Other") {
		t.Error("expected no match for different infile text")
	}
}
