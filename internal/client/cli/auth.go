package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Prompt seams, replaced in tests.
var (
	promptRequired  = PromptRequired
	promptOptional  = PromptOptional
	promptSecret    = PromptSecret
	promptParagraph = PromptParagraph
)

// Register prompts for a username, a password and an optional email and
// creates the account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, err := promptRequired(a.reader, os.Stdout, "Username")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.reader, os.Stdout, "Password")
	if err != nil {
		return err
	}

	email, err := promptOptional(a.reader, os.Stdout, "Email")
	if err != nil {
		return err
	}

	id, err := a.api.Register(ctx, userName, password, email)
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Success! User id: %d", id))
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := promptRequired(a.reader, os.Stdout, "Username")
	if err != nil {
		return err
	}

	password, err := promptSecret(a.reader, os.Stdout, "Password")
	if err != nil {
		return err
	}

	u, err := a.api.Login(ctx, userName, password)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	a.userName = u.UserName
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	return nil
}
