package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yapress/yapress/internal/validate"
)

func TestUserService_SignupValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     SignupInput
		wantField string
	}{
		{"empty username", SignupInput{Password1: "longpassword", Password2: "longpassword"}, "username"},
		{"bad username", SignupInput{Username: "bad name", Password1: "longpassword", Password2: "longpassword"}, "username"},
		{"empty password", SignupInput{Username: "alice"}, "password1"},
		{"short password", SignupInput{Username: "alice", Password1: "short", Password2: "short"}, "password1"},
		{"mismatch", SignupInput{Username: "alice", Password1: "longpassword", Password2: "otherpassword"}, "password2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			_, err := e.users.Signup(context.Background(), tt.input)
			fe, ok := validate.AsFieldError(err)
			if !ok {
				t.Fatalf("error = %v, want *validate.FieldError", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}
}

func TestUserService_SignupAndAuthenticate(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	user, err := e.users.Signup(ctx, SignupInput{Username: "alice", Password1: "correct horse", Password2: "correct horse"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.PasswordHash == "correct horse" {
		t.Fatal("password must be hashed")
	}

	_, err = e.users.Signup(ctx, SignupInput{Username: "alice", Password1: "another one", Password2: "another one"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate Signup() error = %v, want ErrUsernameTaken", err)
	}

	got, err := e.users.Authenticate(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}

	if _, err := e.users.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := e.users.Authenticate(ctx, "nobody", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}

	snap := e.metrics.Snapshot()
	if snap.LoginSuccess != 1 || snap.LoginFailure != 2 {
		t.Errorf("logins = %d/%d, want 1/2", snap.LoginSuccess, snap.LoginFailure)
	}
}
