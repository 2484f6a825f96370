package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"freecode/internal/client"
	"freecode/internal/domain/model"
	"freecode/internal/editor"
	"freecode/internal/judge"
	"freecode/internal/platform/logging"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "freecode",
		Usage: "Solve problems against the judge from your terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "API server base URL",
				Value:   "http://localhost:5000",
				EnvVars: []string{"FREECODE_API"},
			},
			&cli.StringFlag{
				Name:    "judge",
				Usage:   "Judge base URL, used with --direct",
				Value:   "http://127.0.0.1:8000",
				EnvVars: []string{"FREECODE_JUDGE"},
			},
			&cli.StringFlag{
				Name:    "store",
				Usage:   "Path of the local storage file (default: user config dir)",
				EnvVars: []string{"FREECODE_STORE"},
			},
			&cli.BoolFlag{
				Name:  "direct",
				Usage: "Call the judge directly instead of going through the API server",
			},
			&cli.BoolFlag{
				Name:  "guard",
				Usage: "Refuse a run or submit while another one is still pending",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Verbose logging",
				EnvVars: []string{"LOG_DEBUG"},
			},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.Bool("debug"), os.Stderr)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "role", Value: model.RoleUser},
				},
				Action: signup,
			},
			{
				Name:  "login",
				Usage: "Log in and cache the token locally",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: login,
			},
			{
				Name:   "logout",
				Usage:  "Forget the cached token",
				Action: logout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the cached identity",
				Action: whoami,
			},
			{
				Name:   "problems",
				Usage:  "List the built-in problems",
				Action: problems,
			},
			{
				Name:      "run",
				Usage:     "Run a file against the sample input",
				ArgsUsage: "FILE",
				Flags:     sourceFlags(),
				Action:    runOnce,
			},
			{
				Name:      "submit",
				Usage:     "Submit a file against the full suite",
				ArgsUsage: "FILE",
				Flags:     sourceFlags(),
				Action:    submitOnce,
			},
			{
				Name:   "practice",
				Usage:  "Interactive session with a live countdown",
				Flags:  sourceFlags(),
				Action: practice,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintln(os.Stderr, statusErr.Message)
		} else {
			slog.Error("Command failed", "err", err)
		}
		os.Exit(1)
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   "Language: " + languageNames(),
			Value:   string(model.DefaultLanguage),
		},
		&cli.StringFlag{
			Name:  "problem",
			Usage: "Problem slug",
			Value: model.DefaultProblem().Slug,
		},
	}
}

func languageNames() string {
	names := make([]string, len(model.Languages))
	for i, l := range model.Languages {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

func openIdentity(c *cli.Context) (*client.Identity, *client.AuthClient, error) {
	path := c.String("store")
	if path == "" {
		var err error
		if path, err = client.DefaultStorePath(); err != nil {
			return nil, nil, err
		}
	}
	auth := client.NewAuthClient(c.String("api"), nil)
	id, err := client.NewIdentity(auth, client.NewFileStore(path))
	if err != nil {
		return nil, nil, err
	}
	return id, auth, nil
}

func findProblem(slug string) (model.Problem, error) {
	for _, p := range model.Catalog() {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Problem{}, fmt.Errorf("unknown problem %q", slug)
}

// newSession picks the executor: the judge itself with --direct, otherwise
// the API server's proxy using the cached token.
func newSession(c *cli.Context) (*editor.Session, error) {
	problem, err := findProblem(c.String("problem"))
	if err != nil {
		return nil, err
	}

	var executor editor.Executor
	if c.Bool("direct") {
		executor = judge.NewClient(c.String("judge"))
	} else {
		id, _, err := openIdentity(c)
		if err != nil {
			return nil, err
		}
		if _, ok := id.Current(); !ok {
			return nil, errors.New("not logged in; run `freecode login` or pass --direct")
		}
		executor = client.NewRemoteExecutor(c.String("api"), problem.Slug, id, nil)
	}

	opts := []editor.Option{editor.WithProblem(problem)}
	if c.Bool("guard") {
		opts = append(opts, editor.WithInFlightGuard())
	}
	session := editor.NewSession(executor, opts...)
	if err := session.SetLanguage(c.String("lang")); err != nil {
		return nil, err
	}
	return session, nil
}
