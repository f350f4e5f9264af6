package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"golang.org/x/term"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/usecase/user_management"
	"github.com/fixora/expense-tracker/domain/valueobject"
	"github.com/fixora/expense-tracker/infrastructure/adapter/postgres"
	"github.com/fixora/expense-tracker/infrastructure/config"
	"github.com/fixora/expense-tracker/infrastructure/service/password"
)

func main() {
	username := flag.String("username", "admin", "login name")
	email := flag.String("email", "", "email address (required)")
	role := flag.String("role", string(valueobject.RoleAdmin), "ADMIN or USER")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	// Validate the role before prompting for anything.
	if _, err := valueobject.ParseRole(*role); err != nil {
		log.Fatalf("invalid -role %q: must be ADMIN or USER", *role)
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	plain, err := readPassword()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	users := user_management.NewUserManagementUseCase(
		postgres.NewUserRepositoryAdapter(db),
		password.NewBcryptPasswordService(cfg.BcryptCost),
	)

	user, err := users.CreateUser(ctx, inbound.CreateUserRequest{
		Username: *username,
		Email:    *email,
		Password: plain,
		Role:     *role,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created %s user %s (%s)\n", user.Role, user.Username, user.ID)
}

// readPassword prompts on the terminal without echo, or reads one line
// from stdin when it is not a terminal.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
