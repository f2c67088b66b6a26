package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fruitpie/internal/client/models"
	"github.com/dmitrijs2005/fruitpie/internal/client/services"
	"github.com/dmitrijs2005/fruitpie/internal/client/ui"
	"github.com/dmitrijs2005/fruitpie/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getYesNo = GetYesNo

var errAlreadyLoggedIn = errors.New("already logged in")

// Login opens the login dialog, reads credentials and submits them.
//
// On failure the message is written to the dialog's error line and the
// dialog stays open. On success the dialog closes. The password byte slice
// is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if u := a.session.User(); u != nil {
		printlnFn(fmt.Sprintf("Already logged in as %s, log out first.", u.Username))
		return errAlreadyLoggedIn
	}
	if err := a.overlay.Open(DialogLogin); err != nil {
		return err
	}
	_ = a.page.SetText(ui.IDLoginError, "")

	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, userName, string(password)); err != nil {
		msg := services.UserMessage(err, services.MsgLoginFailed)
		_ = a.page.SetText(ui.IDLoginError, msg)
		a.log.Info(ctx, "login failed", "user", userName, "error", err)
		printlnFn("Error:", msg)
		return err
	}

	_ = a.overlay.Close(DialogLogin)
	printlnFn(fmt.Sprintf("Welcome, %s!", userName))
	return nil
}

// Register opens the register dialog, reads the account fields and submits
// them. Success does not log in: after the configured delay the register
// dialog closes and the login dialog opens.
func (a *App) Register(ctx context.Context) error {
	if err := a.overlay.Open(DialogRegister); err != nil {
		return err
	}
	_ = a.page.SetText(ui.IDRegisterError, "")
	_ = a.page.SetText(ui.IDRegisterSuccess, "")

	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	isSeeker, err := getYesNo(a.reader, "Are you looking for jobs?", true, a.out)
	if err != nil {
		return err
	}
	isPoster, err := getYesNo(a.reader, "Do you want to post jobs?", false, a.out)
	if err != nil {
		return err
	}

	reg := models.Registration{
		Username: userName,
		Email:    email,
		Password: string(password),
		IsSeeker: isSeeker,
		IsPoster: isPoster,
	}
	if err := a.session.Register(ctx, reg); err != nil {
		msg := services.UserMessage(err, services.MsgRegisterFailed)
		_ = a.page.SetText(ui.IDRegisterError, msg)
		a.log.Info(ctx, "registration failed", "user", userName, "error", err)
		printlnFn("Error:", msg)
		return err
	}

	_ = a.page.SetText(ui.IDRegisterSuccess, services.MsgRegistered)
	printlnFn(services.MsgRegistered)
	a.scheduleLoginRedirect(ctx)
	return nil
}

func (a *App) scheduleLoginRedirect(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.redirect != nil {
		a.redirect.Stop()
	}
	a.redirect = afterFunc(a.config.RegisterRedirectDelay, func() {
		_ = a.overlay.Close(DialogRegister)
		_ = a.page.SetText(ui.IDRegisterSuccess, "")
		_ = a.overlay.Open(DialogLogin)
		a.log.Debug(ctx, "redirected from register to login")
		printlnFn("Type 'login' to sign in.")
	})
}

// Logout clears the session. The page always switches to the anonymous view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Error(ctx, "error clearing stored token", "error", err)
		printlnFn("Error:", services.UserMessage(err, ""))
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// WhoAmI resolves the stored session against the server again and prints
// the outcome. A failed check leaves the page anonymous.
func (a *App) WhoAmI(ctx context.Context) error {
	err := a.session.Resolve(ctx)
	if err != nil {
		a.log.Warn(ctx, "session check failed", "error", err)
	}
	if u := a.session.User(); u != nil {
		printlnFn(fmt.Sprintf("Logged in as %s (%s)", u.Username, roles(u)))
	} else {
		printlnFn("Not logged in.")
	}
	return err
}

func roles(u *models.User) string {
	var r []string
	if u.IsSeeker {
		r = append(r, "seeker")
	}
	if u.IsPoster {
		r = append(r, "poster")
	}
	if len(r) == 0 {
		return "no roles"
	}
	return strings.Join(r, ", ")
}
