// Package ui derives what the job-board page shows from the session and
// applies it to a headless page model.
package ui

import "github.com/dmitrijs2005/fruitpie/internal/client/models"

// Mode is the binary presentation state of the page.
type Mode int

const (
	Anonymous Mode = iota
	Authenticated
)

func (m Mode) String() string {
	if m == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// ModeOf is Authenticated iff a verified user is present. A token alone
// never makes the page authenticated.
func ModeOf(user *models.User) Mode {
	if user != nil {
		return Authenticated
	}
	return Anonymous
}

// View assigns a value to every element the session controls.
type View struct {
	Mode Mode

	LoginButton    bool
	RegisterButton bool
	LogoutButton   bool
	UserInfo       bool
	Username       string
	PostJobButton  bool
	BoardBlurred   bool
	LoginPrompt    bool
}

// Render derives the full view for user. It is pure.
func Render(user *models.User) View {
	if ModeOf(user) == Anonymous {
		return View{
			Mode:           Anonymous,
			LoginButton:    true,
			RegisterButton: true,
			BoardBlurred:   true,
			LoginPrompt:    true,
		}
	}
	return View{
		Mode:          Authenticated,
		LogoutButton:  true,
		UserInfo:      true,
		Username:      user.Username,
		PostJobButton: user.IsPoster,
	}
}

// Surface receives views. Apply must assign every element from v alone so
// that applying the same view again changes nothing.
type Surface interface {
	Apply(v View)
}
