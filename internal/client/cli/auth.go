package cli

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for name, email and password and creates an account. The
// new account is signed in right away.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.authService.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}

	a.printf("Welcome, %s!\n", acc.Name)
	return nil
}

// Login prompts for credentials and starts a session. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}

	if acc := a.authService.CurrentAccount(); acc != nil {
		a.printf("Signed in as %s <%s>\n", acc.Name, acc.Email)
	}
	return nil
}

// Logout ends the session. It is safe to call when signed out.
func (a *App) Logout(ctx context.Context) error {
	a.lastView = nil
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.println("Signed out.")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	acc := a.authService.CurrentAccount()
	if acc == nil {
		a.println("Not signed in.")
		return nil
	}
	a.printf("%s <%s>\n", acc.Name, acc.Email)
	return nil
}
