package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/fruitpie/internal/client/client"
	"github.com/dmitrijs2005/fruitpie/internal/client/config"
	"github.com/dmitrijs2005/fruitpie/internal/client/models"
	"github.com/dmitrijs2005/fruitpie/internal/client/overlay"
	"github.com/dmitrijs2005/fruitpie/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fruitpie/internal/client/services"
	"github.com/dmitrijs2005/fruitpie/internal/client/ui"
	"github.com/dmitrijs2005/fruitpie/internal/logging"
)

// Dialog names registered with the overlay controller.
const (
	DialogLogin    = "login"
	DialogRegister = "register"
)

// afterFunc is a test seam for time.AfterFunc.
var afterFunc = time.AfterFunc

// sessionService is the part of services.Session the REPL drives.
type sessionService interface {
	Resolve(ctx context.Context) error
	Login(ctx context.Context, username string, password string) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg models.Registration) error
	User() *models.User
	Mode() ui.Mode
	Close() error
}

type App struct {
	config  *config.Config
	session sessionService
	overlay *overlay.Controller
	page    *ui.Page
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB

	mu       sync.Mutex
	redirect *time.Timer
}

// NewApp opens local storage, connects the API client and builds the page,
// the session and the dialogs.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	page := ui.NewPage()
	tokens := services.NewTokenStore(metadata.NewSQLiteRepository(db))
	session := services.NewSession(apiClient, tokens, page, log)

	dialogs, err := newDialogs(page, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:  c,
		session: session,
		overlay: dialogs,
		page:    page,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		db:      db,
	}, nil
}

// newDialogs registers the login and register dialogs with their modal
// content as the hit-test region.
func newDialogs(page *ui.Page, log logging.Logger) (*overlay.Controller, error) {
	c := overlay.NewController(log)
	for _, d := range []struct{ name, content string }{
		{DialogLogin, ui.IDLoginModalContent},
		{DialogRegister, ui.IDRegisterModalContent},
	} {
		content, err := page.Element(d.content)
		if err != nil {
			return nil, err
		}
		c.Add(d.name, overlay.ElementRegion{Root: content})
	}
	return c, nil
}

// Run resolves the stored session and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)
	a.Root(ctx)
}

func (a *App) close(ctx context.Context) {
	a.mu.Lock()
	if a.redirect != nil {
		a.redirect.Stop()
	}
	a.mu.Unlock()

	if err := a.session.Close(); err != nil {
		a.log.Warn(ctx, "error closing api client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "error closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.User() != nil
}

func (a *App) getStatus() string {
	s := a.session.Mode().String()
	if u := a.session.User(); u != nil {
		s = u.Username + " " + s
	}
	if open := a.overlay.OpenDialogs(); len(open) > 0 {
		s = fmt.Sprintf("%s %v", s, open)
	}
	return fmt.Sprintf("(%s)", s)
}
