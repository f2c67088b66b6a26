package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fruitpie/internal/client/overlay"
	"github.com/dmitrijs2005/fruitpie/internal/client/ui"
)

var errNotVisible = errors.New("element is not visible")

// OpenDialog opens a dialog the way the header buttons and prompt links do.
func (a *App) OpenDialog(ctx context.Context, name string) error {
	if err := a.overlay.Open(name); err != nil {
		printlnFn("Unknown dialog:", name)
		return err
	}
	a.log.Debug(ctx, "dialog opened", "dialog", name)
	return nil
}

// CloseDialogs is what every close button does: all dialogs close.
func (a *App) CloseDialogs(ctx context.Context) {
	a.overlay.CloseAll()
	a.log.Debug(ctx, "all dialogs closed")
}

// Click delivers a pointer-down to the element with id and then performs
// the element's click action, if it has one. Dialogs whose content does not
// contain the element are dismissed first.
func (a *App) Click(ctx context.Context, id string) error {
	target, err := a.page.Element(id)
	if err != nil {
		printlnFn("Unknown element:", id)
		return err
	}
	if !a.reachable(target) {
		printlnFn("Element is not visible:", id)
		return fmt.Errorf("%s: %w", id, errNotVisible)
	}

	if closed := a.overlay.PointerDown(ctx, overlay.PointerEvent{Target: target}); len(closed) > 0 {
		printlnFn("Closed:", strings.Join(closed, ", "))
	}

	switch id {
	case ui.IDLoginButton, ui.IDPromptLoginLink:
		return a.OpenDialog(ctx, DialogLogin)
	case ui.IDRegisterButton, ui.IDPromptRegisterLink:
		return a.OpenDialog(ctx, DialogRegister)
	case ui.IDLoginClose, ui.IDRegisterClose:
		a.CloseDialogs(ctx)
	case ui.IDLogoutButton:
		return a.Logout(ctx)
	}
	return nil
}

// reachable reports whether e and all its ancestors are shown. Elements of
// a closed dialog cannot be pointed at.
func (a *App) reachable(e *ui.Element) bool {
	for n := e; n != nil; n = n.Parent() {
		if !a.page.Visible(n.ID) {
			return false
		}
		switch n.ID {
		case ui.IDLoginModal:
			if !a.overlay.IsOpen(DialogLogin) {
				return false
			}
		case ui.IDRegisterModal:
			if !a.overlay.IsOpen(DialogRegister) {
				return false
			}
		}
	}
	return true
}

// ShowPage prints the page header, the open dialogs and their message lines.
func (a *App) ShowPage() {
	printlnFn(a.page.Describe())
	for _, name := range a.overlay.OpenDialogs() {
		line := fmt.Sprintf("dialog %s: open", name)
		for _, id := range messageLines(name) {
			if text := a.page.Text(id); text != "" {
				line += fmt.Sprintf(" [%s] %s", id, text)
			}
		}
		printlnFn(line)
	}
}

func messageLines(dialog string) []string {
	switch dialog {
	case DialogLogin:
		return []string{ui.IDLoginError}
	case DialogRegister:
		return []string{ui.IDRegisterError, ui.IDRegisterSuccess}
	}
	return nil
}
