package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/config"
	"github.com/faceconnect/client/internal/handlers"
	"github.com/faceconnect/client/internal/httpserver"
	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/middleware"
	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// ErrNotLoggedIn is returned by commands that need a stored session.
var ErrNotLoggedIn = errors.New("not logged in: run `faceconnect login <email>` first")

// Run bootstraps the FaceConnect client.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout)
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, login, register, logout, whoami, feed, notifications, or migrate")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "serve":
		return serve(ctx, cfg)
	case "migrate":
		return runMigrations(ctx, cfg, args[1:], out)
	case "login", "register", "logout", "whoami", "feed", "notifications":
		return runCLI(ctx, cfg, args, in, out)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := logging.New(cfg.LogLevel, func(opts *slog.HandlerOptions) slog.Handler {
		return slog.NewJSONHandler(os.Stdout, opts)
	})
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	deps, err := buildDependencies(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.controller.Resume(ctx); err != nil {
		logger.Warn("resume stored session failed", "error", err)
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps.routes())

	handler := middleware.CORS(cfg.AllowedOrigins)(middleware.RequestLogger(logger)(mux))

	srv := httpserver.New(cfg.UIAddr(), handler)

	logger.Info("starting ui server", "addr", srv.Addr(), "api", cfg.APIBaseURL, "store", cfg.Store.Backend)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if !httpserver.Closed(err) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func runCLI(ctx context.Context, cfg config.Config, args []string, in io.Reader, out io.Writer) error {
	logger := logging.New(cfg.LogLevel, func(opts *slog.HandlerOptions) slog.Handler {
		return slog.NewJSONHandler(os.Stderr, opts)
	})
	ctx = logging.WithLogger(ctx, logger)

	console := ui.NewConsole(in, out)
	deps, err := buildDependencies(ctx, cfg, console)
	if err != nil {
		return err
	}
	defer deps.Close()

	switch args[0] {
	case "login":
		return cliLogin(ctx, deps, console, args[1:], out)
	case "register":
		return cliRegister(ctx, deps, console)
	case "logout":
		if err := deps.restore(ctx); err != nil {
			return err
		}
		return deps.controller.Logout(ctx)
	case "whoami":
		return cliWhoami(ctx, deps, out)
	case "feed":
		return cliFeed(ctx, deps, args[1:], out)
	default:
		return cliNotifications(ctx, deps, out)
	}
}

func cliLogin(ctx context.Context, deps *dependencies, console *ui.Console, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: faceconnect login <email>")
	}
	password := os.Getenv("FACECONNECT_PASSWORD")
	if password == "" {
		answer, ok := console.Prompt(ctx, "Password:")
		if !ok {
			return errors.New("login cancelled")
		}
		password = answer
	}
	if err := deps.controller.Login(ctx, args[0], password); err != nil {
		return err
	}
	return printUser(out, deps.session.User())
}

type promptField struct {
	prompt string
	dst    *string
}

func cliRegister(ctx context.Context, deps *dependencies, console *ui.Console) error {
	var req api.RegisterRequest
	fields := []promptField{
		{"First name:", &req.FirstName},
		{"Last name:", &req.LastName},
		{"Email:", &req.Email},
		{"Username:", &req.Username},
		{"Password:", &req.Password},
		{"Birth date (YYYY-MM-DD):", &req.BirthDate},
		{"Gender:", &req.Gender},
	}
	for _, f := range fields {
		answer, ok := console.Prompt(ctx, f.prompt)
		if !ok {
			return errors.New("registration cancelled")
		}
		*f.dst = answer
	}
	return deps.controller.Register(ctx, req)
}

func cliWhoami(ctx context.Context, deps *dependencies, out io.Writer) error {
	if err := deps.restore(ctx); err != nil {
		return err
	}
	return printUser(out, deps.session.User())
}

func cliFeed(ctx context.Context, deps *dependencies, args []string, out io.Writer) error {
	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = p
	}
	if err := deps.restore(ctx); err != nil {
		return err
	}

	feed, err := deps.api.Feed(ctx, page, api.FeedPageSize)
	if err != nil {
		return err
	}
	if len(feed.Posts) == 0 {
		_, err := fmt.Fprintln(out, view.EmptyFeed.Message)
		return err
	}
	now := deps.now()
	for _, p := range feed.Posts {
		if _, err := fmt.Fprintf(out, "#%d %s · %s\n%s\n%d likes · %d comments\n\n",
			p.ID, p.Author.DisplayName(), view.FormatTimeLayout(p.CreatedAt.Time, now, deps.cfg.DateLayout),
			p.Content, p.LikesCount, p.CommentsCount); err != nil {
			return err
		}
	}
	if feed.HasNext {
		_, err = fmt.Fprintf(out, "more: faceconnect feed %d\n", page+1)
	}
	return err
}

func cliNotifications(ctx context.Context, deps *dependencies, out io.Writer) error {
	if err := deps.restore(ctx); err != nil {
		return err
	}
	items, err := deps.api.Notifications(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, view.EmptyNotifications.Message)
		return err
	}
	now := deps.now()
	for _, n := range items {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s (%s)\n", marker, n.Content,
			view.FormatTimeLayout(n.CreatedAt.Time, now, deps.cfg.DateLayout)); err != nil {
			return err
		}
	}
	return nil
}

func printUser(out io.Writer, u models.User) error {
	line := u.DisplayName()
	if u.Username != "" {
		line += " (@" + u.Username + ")"
	}
	_, err := fmt.Fprintf(out, "%s id=%d\n", strings.TrimSpace(line), u.ID)
	return err
}
