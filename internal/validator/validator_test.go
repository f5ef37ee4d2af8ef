package validator

import "testing"

func TestCheckNotBlank(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace", "  \n\t", false},
		{"text", "Текст", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.CheckNotBlank(tt.value, "text", "must be provided")
			if v.IsValid() != tt.valid {
				t.Fatalf("IsValid() = %v, want %v (errors: %v)", v.IsValid(), tt.valid, v.Errors)
			}
		})
	}
}

func TestAddErrorKeepsFirstMessage(t *testing.T) {
	v := New()
	v.AddError("text", "first")
	v.AddError("text", "second")

	if got := v.Errors["text"]; got != "first" {
		t.Fatalf("Errors[text] = %q, want %q", got, "first")
	}
}

func TestCheckEmail(t *testing.T) {
	v := New()
	v.CheckEmail("auth@example.com", "must be a valid email address")
	if !v.IsValid() {
		t.Fatalf("valid email rejected: %v", v.Errors)
	}

	v = New()
	v.CheckEmail("not-an-email", "must be a valid email address")
	if v.IsValid() {
		t.Fatal("invalid email accepted")
	}
}

func TestUsernamePattern(t *testing.T) {
	v := New()
	for _, name := range []string{"auth", "auth-anothe", "a.b@c+d_e"} {
		if !v.IsMatch(name, UsernameRX) {
			t.Errorf("username %q rejected", name)
		}
	}
	if v.IsMatch("bad name", UsernameRX) {
		t.Error("username with a space accepted")
	}
}
