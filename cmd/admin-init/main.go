// Command admin-init creates the database schema and stores the admin
// credentials in the settings table. Run it once before starting the
// server, and again whenever the password should change.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"gnotes/internal/auth"
	"gnotes/internal/config"
	"gnotes/internal/store"
)

func main() {
	plain := flag.Bool("plain", false, "store the password as plaintext instead of an argon2id hash")
	lastday := flag.String("lastday", "", "hide notes older than this ISO date (YYYY-MM-DD) from listings")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/admin-init [-plain] [-lastday YYYY-MM-DD] <username>")
		os.Exit(2)
	}
	user := strings.TrimSpace(flag.Arg(0))
	if user == "" {
		fmt.Fprintln(os.Stderr, "username must not be empty")
		os.Exit(2)
	}
	if *lastday != "" {
		if _, err := time.Parse("2006-01-02", *lastday); err != nil {
			fmt.Fprintln(os.Stderr, "lastday must be an ISO date (YYYY-MM-DD)")
			os.Exit(2)
		}
	}

	cfg := config.Load()
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	existing, err := st.Setting(ctx, "admin_username")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if existing != "" && existing != user {
		ok, err := promptYesNo(fmt.Sprintf("Admin is currently %q. Replace with %q? [y/N]: ", existing, user))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "no changes made")
			return
		}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	confirm, err := promptPassword("Confirm: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "passwords do not match")
		os.Exit(1)
	}

	stored := password
	if !*plain {
		stored, err = auth.HashPassword(password)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := st.SetSetting(ctx, "admin_username", user); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := st.SetSetting(ctx, "admin_password", stored); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *lastday != "" {
		if err := st.SetSetting(ctx, "lastday", *lastday); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "updated %s\n", cfg.DBPath)
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(pass)), nil
}

func promptYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
