package cli

import "context"

// Root resolves the session stored by the previous run, shows the page and
// blocks in the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the FruitPie job board (type 'help' for commands)")

	if err := a.session.Resolve(ctx); err != nil {
		a.log.Warn(ctx, "could not resolve stored session", "error", err)
	}
	a.ShowPage()

	runREPL(ctx, a, a.getStatus, a.reader)
}
