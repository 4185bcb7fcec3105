package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/service"
	"github.com/work21/portal/internal/infrastructure/backend"
	"github.com/work21/portal/internal/infrastructure/storage"
	"github.com/work21/portal/internal/pkg/config"
)

var errUsage = errors.New("usage: work21 <login|register|logout|whoami|refresh|projects|project|tasks|apply|estimate|theme> [flags]")

// app is one CLI invocation: a session store over the local storage file.
type app struct {
	session *service.SessionService
	backend *backend.Client
	storage *storage.FileStorage
	in      *bufio.Reader
	tty     *os.File // non-nil when input is a terminal
	out     io.Writer
}

func newApp(ctx context.Context, cfg *config.CLIConfig, in io.Reader, out io.Writer, log zerolog.Logger) *app {
	file := storage.NewFileStorage(cfg.StoragePath(), cfg.Passphrase)
	client := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.Timeout}, log).
		WithTokens(storage.NewTokenSource(file, log))

	a := &app{
		session: service.NewSessionService(client, file, log),
		backend: client,
		storage: file,
		in:      bufio.NewReader(in),
		out:     out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.tty = f
	}
	a.session.Init(ctx)
	return a
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		tr := a.session.Logout(ctx)
		return a.printTransition(tr)
	case "whoami":
		return a.whoami()
	case "refresh":
		tr, err := a.session.RefreshUser(ctx)
		_ = a.printTransition(tr)
		return err
	case "projects":
		return a.projects(ctx, args)
	case "project":
		return a.withID(ctx, args, func(id int64) (any, error) { return a.backend.GetProject(ctx, id) })
	case "tasks":
		return a.withID(ctx, args, func(id int64) (any, error) { return a.backend.ListTasks(ctx, id) })
	case "apply":
		return a.apply(ctx, args)
	case "estimate":
		return a.estimate(ctx, args)
	case "theme":
		return a.theme(ctx, args)
	}
	return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("login: -email is required")
	}
	if *password == "" {
		pw, err := a.readPassword("password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	tr, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.printTransition(tr)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var in domain.RegisterInput
	role := fs.String("role", string(domain.RoleStudent), "student or customer")
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "account password")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.Role = domain.Role(*role)
	if in.Role != domain.RoleStudent && in.Role != domain.RoleCustomer {
		return fmt.Errorf("register: role must be student or customer, got %q", *role)
	}
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return errors.New("register: -email, -password, -first and -last are required")
	}

	tr, err := a.session.Register(ctx, in)
	if err != nil {
		return err
	}
	return a.printTransition(tr)
}

func (a *app) whoami() error {
	st := a.session.Snapshot()
	if st.User == nil {
		return domain.ErrUnauthenticated
	}
	return a.printJSON(st.User)
}

func (a *app) projects(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("projects", flag.ContinueOnError)
	var f domain.ProjectFilter
	status := fs.String("status", "", "filter by status")
	fs.StringVar(&f.Search, "search", "", "full-text search")
	fs.IntVar(&f.Limit, "limit", 0, "page size")
	fs.IntVar(&f.Offset, "offset", 0, "page offset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.Status = domain.ProjectStatus(*status)

	projects, err := a.backend.ListProjects(ctx, f)
	if err != nil {
		return a.backendError(ctx, err)
	}
	return a.printJSON(projects)
}

func (a *app) apply(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("apply: project id is required")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	letter := fs.String("letter", "", "cover letter")
	price := fs.Float64("price", 0, "proposed price")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if strings.TrimSpace(*letter) == "" {
		return errors.New("apply: -letter is required")
	}

	in := domain.ApplicationInput{CoverLetter: *letter}
	if *price > 0 {
		in.ProposedPrice = price
	}
	application, err := a.backend.Apply(ctx, id, in)
	if err != nil {
		return a.backendError(ctx, err)
	}
	return a.printJSON(application)
}

func (a *app) estimate(ctx context.Context, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return errors.New("estimate: describe the project")
	}
	est, err := a.backend.Estimate(ctx, description)
	if err != nil {
		return a.backendError(ctx, err)
	}
	if est.Error != "" {
		return errors.New(est.Error)
	}
	return a.printJSON(est)
}

func (a *app) theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		theme := domain.ThemeSystem
		raw, ok, err := a.storage.Get(ctx, domain.ThemeKey)
		if err != nil {
			return err
		}
		if t, err := domain.ParseTheme(raw); ok && err == nil {
			theme = t
		}
		_, err = fmt.Fprintln(a.out, theme)
		return err
	}

	theme, err := domain.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := a.storage.Set(ctx, domain.ThemeKey, string(theme)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, theme)
	return err
}

func (a *app) withID(ctx context.Context, args []string, call func(id int64) (any, error)) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	v, err := call(id)
	if err != nil {
		return a.backendError(ctx, err)
	}
	return a.printJSON(v)
}

// backendError logs the local session out when the backend no longer accepts
// the stored token.
func (a *app) backendError(ctx context.Context, err error) error {
	if domain.IsAuthError(err) {
		a.session.Logout(ctx)
		return fmt.Errorf("%w (logged out, run work21 login)", err)
	}
	return err
}

func (a *app) printTransition(tr domain.Transition) error {
	if u := tr.State.User; u != nil {
		fmt.Fprintf(a.out, "signed in as %s <%s> (%s)\n", u.FullName(), u.Email, u.Role)
	} else {
		fmt.Fprintln(a.out, "signed out")
	}
	if tr.Navigate != domain.RouteNone {
		fmt.Fprintf(a.out, "next: %s\n", tr.Navigate)
	}
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) readPassword(prompt string) (string, error) {
	if a.tty == nil {
		return a.readLine(prompt)
	}
	fmt.Fprint(a.out, prompt)
	pw, err := term.ReadPassword(int(a.tty.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
