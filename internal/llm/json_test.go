package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"plain text", "plain text"},
	}
	for _, c := range cases {
		if got := ExtractJSON(c.in); got != c.want {
			t.Fatalf("ExtractJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
