package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
)

func TestRegister_Success(t *testing.T) {
	f := &fakeAPI{}
	a := &App{api: f}
	out := captureOutput(t)

	stubInputs(t, []string{"alice", "a@x.io"}, "secret")

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.regUser != "alice" || f.regPass != "secret" || f.regEmail != "a@x.io" {
		t.Fatalf("Register args mismatch: %q %q %q", f.regUser, f.regPass, f.regEmail)
	}
	if a.isLoggedIn() {
		t.Fatal("Register must not log in")
	}
	if got := out.String(); got != "Success! User id: 11\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRegister_ErrorPropagates(t *testing.T) {
	f := &fakeAPI{regErr: &client.APIError{StatusCode: 400, Message: "Username already exists"}}
	a := &App{api: f}
	stubInputs(t, []string{"alice", ""}, "secret")

	err := a.Register(context.Background())
	if !errors.Is(err, client.ErrBadRequest) {
		t.Fatalf("want bad request, got %v", err)
	}
}

func TestLogin_SetsUser(t *testing.T) {
	f := &fakeAPI{}
	a := &App{api: f}
	stubInputs(t, []string{"alice"}, "pw")

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.loginUser != "alice" || f.loginPass != "pw" {
		t.Fatalf("Login args mismatch: %q %q", f.loginUser, f.loginPass)
	}
	if !a.isLoggedIn() || a.userName != "alice" {
		t.Fatalf("expected logged in as alice, got %q", a.userName)
	}
}

func TestLogin_Failure(t *testing.T) {
	f := &fakeAPI{loginErr: &client.APIError{StatusCode: 401, Message: "Invalid credentials"}}
	a := &App{api: f}
	stubInputs(t, []string{"alice"}, "nope")

	if err := a.Login(context.Background()); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("want unauthorized, got %v", err)
	}
	if a.isLoggedIn() {
		t.Fatal("must stay logged out")
	}
}

func TestLogout(t *testing.T) {
	f := &fakeAPI{}
	a := &App{api: f, userName: "alice"}
	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !f.loggedOut {
		t.Fatalf("client token not cleared")
	}
	if a.isLoggedIn() {
		t.Fatalf("user not cleared")
	}
}
