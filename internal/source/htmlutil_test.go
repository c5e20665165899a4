package source

import "testing"

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"cut at limit", "hello world", 5, "hello"},
		{"limit counted in runes", "héllo wörld", 7, "héllo w"},
		{"zero limit keeps input", "hello", 0, "hello"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	got := StripTags("<p>Build <b>ML</b> systems.</p>")
	if got != "Build ML systems." {
		t.Fatalf("unexpected stripped text: %q", got)
	}
}
