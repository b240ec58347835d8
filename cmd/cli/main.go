package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duynhne/social-service/internal/client"
	"github.com/duynhne/social-service/internal/client/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	apiURL := flag.String("api", envOr("SOCIAL_API_URL", "http://localhost:8080/api/v1"), "API base URL")
	sessionPath := flag.String("session", client.DefaultSessionPath(), "session file")
	timeout := flag.Duration("timeout", 15*time.Second, "per-request timeout")
	flag.Parse()

	session, err := client.LoadSession(*sessionPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(client.New(*apiURL, session, client.WithTimeout(*timeout)), os.Stdin, os.Stdout)
	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, cli.ErrUsage) {
			app.Usage()
			return 2
		}
		if errors.Is(err, client.ErrSignedOut) {
			fmt.Fprintln(os.Stderr, "run `login` or `register` first")
		}
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
