// Command gamehub is a small terminal client for the GameHub API.
//
//	gamehub [-api URL] register <email>
//	gamehub [-api URL] login <email>
//	gamehub [-api URL] me
//	gamehub [-api URL] games [search]
//	gamehub [-api URL] players [search]
//
// register and login print the session token; me reads it from
// GAMEHUB_TOKEN.
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
	"os/signal"
	"strings"

	"github.com/vaughan-dsouza/gamehub/internal/client"
	"golang.org/x/term"
)

var errUsage = errors.New("usage: gamehub [-api URL] register|login <email> | me | games [search] | players [search]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("gamehub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	defURL := getenv("GAMEHUB_API")
	if defURL == "" {
		defURL = "http://localhost:4000"
	}
	apiURL := fs.String("api", defURL, "API base URL")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	c := client.New(*apiURL, nil)
	if token := getenv("GAMEHUB_TOKEN"); token != "" {
		c.SetToken(token)
	}

	switch cmd, params := rest[0], rest[1:]; cmd {
	case "register", "login":
		if len(params) != 1 {
			return errUsage
		}
		password, err := promptPassword(stdin, out)
		if err != nil {
			return err
		}
		var s *client.Session
		if cmd == "register" {
			s, err = c.Register(ctx, params[0], password)
		} else {
			s, err = c.Login(ctx, params[0], password)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "id: %d\nemail: %s\ntoken: %s\n", s.ID, s.Email, s.Token)
		return nil

	case "me":
		me, err := c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, me)

	case "games":
		games, err := c.ListGames(ctx, strings.Join(params, " "))
		if err != nil {
			return err
		}
		return printJSON(out, games)

	case "players":
		players, err := c.ListPlayers(ctx, strings.Join(params, " "))
		if err != nil {
			return err
		}
		return printJSON(out, players)

	default:
		return errUsage
	}
}

// promptPassword reads without echo from a terminal, or a plain line when
// stdin is piped.
func promptPassword(stdin io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	defer fmt.Fprintln(out)

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
