package client

import (
	"context"

	"github.com/dmitrijs2005/fruitpie/internal/client/models"
)

// Client is the contract of the job-board API as consumed by the session.
type Client interface {
	Close() error
	RequestToken(ctx context.Context, username string, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Register(ctx context.Context, reg models.Registration) error
}
