package cache

import "testing"

func TestSessionKey(t *testing.T) {
	tests := []struct {
		name string
		jti  string
		want string
	}{
		{"ulid", "01HV4Q2M3N4P5Q6R7S8T9V0W1X", "session:01HV4Q2M3N4P5Q6R7S8T9V0W1X"},
		{"empty", "", "session:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionKey(tt.jti); got != tt.want {
				t.Errorf("sessionKey(%q) = %q, want %q", tt.jti, got, tt.want)
			}
		})
	}
}
