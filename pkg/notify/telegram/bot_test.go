package telegram

import "testing"

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/digest", "/digest"},
		{"/digest@digest_pilot_bot", "/digest"},
		{"/status", "/status"},
		{" /status ", "/status"},
		{"/unknown", ""},
		{"hello", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := ParseCommand(c.text); got != c.want {
			t.Errorf("ParseCommand(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
