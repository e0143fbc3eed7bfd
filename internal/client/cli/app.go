package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/skincheck/internal/client/api"
	"github.com/dmitrijs2005/skincheck/internal/client/config"
	"github.com/dmitrijs2005/skincheck/internal/client/gateway"
	"github.com/dmitrijs2005/skincheck/internal/client/history"
	"github.com/dmitrijs2005/skincheck/internal/client/services"
	"github.com/dmitrijs2005/skincheck/internal/client/session"
	"github.com/dmitrijs2005/skincheck/internal/client/storage"
	"github.com/dmitrijs2005/skincheck/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *session.Manager
	auth     services.AuthService
	scans    services.ScanService
	history  *history.ViewModel
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the local database, restores the session and wires the
// remote client. Close releases the database.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, c.DataPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	sessions := session.NewManager(ctx, session.NewSQLiteStore(db, logger), logger)

	gw, err := gateway.New(c.APIBaseURL, sessions, logger, gateway.WithTimeout(c.RequestTimeout))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	client := api.New(gw)

	opts := []history.Option{history.WithPageSize(c.PageSize)}
	if c.RemoteDelete {
		opts = append(opts, history.WithRemover(client))
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		sessions: sessions,
		auth:     services.NewAuthService(client, sessions),
		scans:    services.NewScanService(client, logger, c.MaxImageSide),
		history:  history.New(client, opts...),
		reader:   bufio.NewReader(in),
		out:      out,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

func (a *App) getStatus() string {
	if s, ok := a.sessions.Current(); ok {
		return fmt.Sprintf("(%s)", s.Email)
	}
	return ""
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
