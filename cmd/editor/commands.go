package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"freecode/internal/client"
	"freecode/internal/domain/model"
	"freecode/internal/editor"

	"github.com/urfave/cli/v2"
)

func signup(c *cli.Context) error {
	_, auth, err := openIdentity(c)
	if err != nil {
		return err
	}
	data := client.SignupData{
		Email:    c.String("email"),
		Password: c.String("password"),
		Role:     c.String("role"),
	}
	if err := auth.Signup(c.Context, data); err != nil {
		return err
	}
	fmt.Println("User registered. Log in with `freecode login`.")
	return nil
}

func login(c *cli.Context) error {
	id, _, err := openIdentity(c)
	if err != nil {
		return err
	}
	user, err := id.Login(c.Context, client.Credentials{Email: c.String("email"), Password: c.String("password")})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", user.Role)
	return nil
}

func logout(c *cli.Context) error {
	id, _, err := openIdentity(c)
	if err != nil {
		return err
	}
	if err := id.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func whoami(c *cli.Context) error {
	id, _, err := openIdentity(c)
	if err != nil {
		return err
	}
	user, ok := id.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("Logged in as %s\n", user.Role)
	return nil
}

func problems(c *cli.Context) error {
	for i, p := range model.Catalog() {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("[%s]\n", p.Slug)
		editor.RenderProblem(os.Stdout, p)
	}
	return nil
}

func loadSource(c *cli.Context, session *editor.Session) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one FILE argument", 2)
	}
	src, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}
	session.SetCode(string(src))
	return nil
}

func runOnce(c *cli.Context) error {
	session, err := newSession(c)
	if err != nil {
		return err
	}
	if err := loadSource(c, session); err != nil {
		return err
	}
	if _, err := session.Run(c.Context); err != nil {
		return err
	}
	editor.Render(os.Stdout, session.Snapshot())
	return nil
}

func submitOnce(c *cli.Context) error {
	session, err := newSession(c)
	if err != nil {
		return err
	}
	if err := loadSource(c, session); err != nil {
		return err
	}
	if _, err := session.Submit(c.Context); err != nil {
		return err
	}
	snap := session.Snapshot()
	editor.Render(os.Stdout, snap)
	if !snap.ShowCongrats() {
		return cli.Exit("", 1)
	}
	return nil
}

const practiceHelp = `Commands:
  load FILE     replace the buffer with FILE
  edit          type code, finish with a line containing only "."
  lang NAME     switch language (python, java, c)
  run           run against the sample input
  submit        submit against the full suite
  wait          block until pending runs and submits finish
  show          show problem, timer and last results
  time          show the countdown
  help          this text
  quit          leave`

func practice(c *cli.Context) error {
	session, err := newSession(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	go session.RunClock(ctx)

	snap := session.Snapshot()
	editor.RenderProblem(os.Stdout, snap.Problem)
	fmt.Println()
	fmt.Println(practiceHelp)

	return repl(ctx, session, os.Stdin, os.Stdout)
}

// syncWriter serialises output from the prompt loop and finished judge calls.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// repl reads commands from in. Runs and submits go to the judge in the
// background so the prompt stays live; their output is printed when they
// finish, and the loop waits for them before returning.
func repl(ctx context.Context, session *editor.Session, in io.Reader, out io.Writer) error {
	out = &syncWriter{w: out}
	var pending sync.WaitGroup
	defer pending.Wait()

	dispatch := func(call func(context.Context) error) {
		pending.Add(1)
		go func() {
			defer pending.Done()
			var buf bytes.Buffer
			if err := call(ctx); err != nil {
				fmt.Fprintln(&buf, err)
			} else {
				editor.Render(&buf, session.Snapshot())
			}
			out.Write(buf.Bytes())
		}()
	}
	run := func(ctx context.Context) error {
		_, err := session.Run(ctx)
		return err
	}
	submit := func(ctx context.Context) error {
		_, err := session.Submit(ctx)
		return err
	}

	scanner := bufio.NewScanner(in)
	prompt := func() {
		fmt.Fprintf(out, "%s> ", editor.FormatTime(session.Snapshot().TimerSecondsRemaining))
	}

	for prompt(); scanner.Scan(); prompt() {
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, practiceHelp)
		case "load":
			src, err := os.ReadFile(arg)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			session.SetCode(string(src))
		case "edit":
			var b strings.Builder
			for scanner.Scan() {
				line := scanner.Text()
				if line == "." {
					break
				}
				b.WriteString(line)
				b.WriteByte('\n')
			}
			session.SetCode(b.String())
		case "lang":
			if err := session.SetLanguage(arg); err != nil {
				fmt.Fprintln(out, err)
			}
		case "run":
			dispatch(run)
		case "submit":
			dispatch(submit)
		case "wait":
			pending.Wait()
		case "show":
			snap := session.Snapshot()
			var buf bytes.Buffer
			editor.RenderProblem(&buf, snap.Problem)
			editor.Render(&buf, snap)
			out.Write(buf.Bytes())
		case "time":
			fmt.Fprintln(out, editor.FormatTime(session.Snapshot().TimerSecondsRemaining))
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
		}
	}
	return scanner.Err()
}
