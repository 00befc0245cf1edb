package identity

import "testing"

func TestAuthor(t *testing.T) {
	tests := []struct {
		name     string
		override string
		hubUser  string
		user     string
		want     string
	}{
		{"override wins", "ta-bot", "ann", "root", "ta-bot"},
		{"course user", "", "ann", "root", "ann"},
		{"login user", "", "", "root", "root"},
		{"blank override ignored", "  ", "", "root", "root"},
		{"nothing set", "", "", "", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COURSEHUB_USER", tt.hubUser)
			t.Setenv("USER", tt.user)
			if got := Author(tt.override); got != tt.want {
				t.Errorf("Author(%q) = %q, want %q", tt.override, got, tt.want)
			}
		})
	}
}
