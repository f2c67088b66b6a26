package ui

import (
	"fmt"
	"strings"
	"sync"
)

// Element identifiers of the job-board page.
const (
	IDLoginButton        = "login-btn"
	IDRegisterButton     = "register-btn"
	IDLogoutButton       = "logout-btn"
	IDPostJobButton      = "post-job-btn"
	IDUserInfo           = "user-info"
	IDUsernameDisplay    = "username-display"
	IDJobBoardContent    = "job-board-content"
	IDLoginPrompt        = "login-prompt"
	IDPromptLoginLink    = "prompt-login-link"
	IDPromptRegisterLink = "prompt-register-link"

	IDLoginModal           = "login-modal"
	IDLoginModalContent    = "login-modal-content"
	IDLoginForm            = "login-form"
	IDLoginUsername        = "login-username"
	IDLoginPassword        = "login-password"
	IDLoginError           = "login-error"
	IDLoginClose           = "login-close-btn"
	IDRegisterModal        = "register-modal"
	IDRegisterModalContent = "register-modal-content"
	IDRegisterForm         = "register-form"
	IDRegisterUsername     = "register-username"
	IDRegisterEmail        = "register-email"
	IDRegisterPassword     = "register-password"
	IDRegisterIsSeeker     = "is_seeker"
	IDRegisterIsPoster     = "is_poster"
	IDRegisterError        = "register-error"
	IDRegisterSuccess      = "register-success"
	IDRegisterClose        = "register-close-btn"
)

// Page is the headless job-board page. Modal backdrops are part of the tree
// so a pointer-down can land on them; their visibility is owned by the
// overlay controller, not by the view.
type Page struct {
	mu   sync.RWMutex
	root *Element
	view View
}

func NewPage() *Page {
	root := NewElement("body",
		NewElement("header",
			NewElement(IDLoginButton),
			NewElement(IDRegisterButton),
			NewElement(IDLogoutButton),
			NewElement(IDUserInfo, NewElement(IDUsernameDisplay)),
			NewElement(IDPostJobButton),
		),
		NewElement(IDJobBoardContent),
		NewElement(IDLoginPrompt,
			NewElement(IDPromptLoginLink),
			NewElement(IDPromptRegisterLink),
		),
		NewElement(IDLoginModal,
			NewElement(IDLoginModalContent,
				NewElement(IDLoginClose),
				NewElement(IDLoginForm,
					NewElement(IDLoginUsername),
					NewElement(IDLoginPassword),
				),
				NewElement(IDLoginError),
			),
		),
		NewElement(IDRegisterModal,
			NewElement(IDRegisterModalContent,
				NewElement(IDRegisterClose),
				NewElement(IDRegisterForm,
					NewElement(IDRegisterUsername),
					NewElement(IDRegisterEmail),
					NewElement(IDRegisterPassword),
					NewElement(IDRegisterIsSeeker),
					NewElement(IDRegisterIsPoster),
				),
				NewElement(IDRegisterError),
				NewElement(IDRegisterSuccess),
			),
		),
	)

	p := &Page{root: root}
	p.Apply(Render(nil))
	return p
}

// Root returns the top of the element tree.
func (p *Page) Root() *Element { return p.root }

// Element looks an element up by id.
func (p *Page) Element(id string) (*Element, error) {
	if e := p.root.Find(id); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("element %q: %w", id, ErrNoSuchElement)
}

func (p *Page) mustFind(id string) *Element {
	e := p.root.Find(id)
	if e == nil {
		panic("page: missing element " + id)
	}
	return e
}

// Apply implements Surface.
func (p *Page) Apply(v View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mustFind(IDLoginButton).Hidden = !v.LoginButton
	p.mustFind(IDRegisterButton).Hidden = !v.RegisterButton
	p.mustFind(IDLogoutButton).Hidden = !v.LogoutButton
	p.mustFind(IDUserInfo).Hidden = !v.UserInfo
	p.mustFind(IDUsernameDisplay).Text = v.Username
	p.mustFind(IDPostJobButton).Hidden = !v.PostJobButton
	p.mustFind(IDJobBoardContent).Blurred = v.BoardBlurred
	p.mustFind(IDLoginPrompt).Hidden = !v.LoginPrompt

	p.view = v
}

// View returns the last applied view.
func (p *Page) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// SetText writes a message line such as a form error.
func (p *Page) SetText(id string, text string) error {
	e, err := p.Element(id)
	if err != nil {
		return err
	}
	p.mu.Lock()
	e.Text = text
	p.mu.Unlock()
	return nil
}

// Text reads an element's text.
func (p *Page) Text(id string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e := p.root.Find(id); e != nil {
		return e.Text
	}
	return ""
}

// Visible reports whether the element with id is shown by the current view.
func (p *Page) Visible(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e := p.root.Find(id)
	return e != nil && !e.Hidden
}

// Describe renders the header state as a single line for the terminal.
func (p *Page) Describe() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var parts []string
	for _, id := range []string{IDLoginButton, IDRegisterButton, IDLogoutButton, IDPostJobButton} {
		if !p.root.Find(id).Hidden {
			parts = append(parts, "["+id+"]")
		}
	}
	if !p.root.Find(IDUserInfo).Hidden {
		parts = append(parts, "user: "+p.root.Find(IDUsernameDisplay).Text)
	}
	if p.root.Find(IDJobBoardContent).Blurred {
		parts = append(parts, "(job board hidden: log in to view)")
	}
	return strings.Join(parts, " ")
}
