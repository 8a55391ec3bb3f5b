package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/vitrinehq/vitrine/internal/adapter/postgres"
	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/port/database"
	"github.com/vitrinehq/vitrine/internal/port/messagequeue"
	"github.com/vitrinehq/vitrine/internal/service"
)

// cliActor marks audit entries written from the operator CLI rather than
// an authenticated request.
const cliActor = "cli"

// runAdmin dispatches operator subcommands (promote, reset-password,
// list-tenants).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "promote":
		return runAdminPromote(args[1:])
	case "reset-password":
		return runAdminResetPassword(args[1:])
	case "list-tenants":
		return runAdminListTenants(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: vitrine admin <command> [options]

Commands:
  promote          Promote a user to platform superadmin
  reset-password   Reset a user's password
  list-tenants     List all tenants
  help             Show this help message

Examples:
  vitrine admin promote --email ops@vitrine.local
  vitrine admin reset-password --email ana@example.com
  vitrine admin list-tenants
`)
}

func loadAdminDeps() (database.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := postgres.NewPool(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return postgres.NewStore(pool), pool.Close, nil
}

// runAdminPromote raises a user's membership to superadmin. The user must
// already belong to a store; there is no tenant-less membership.
func runAdminPromote(args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	email := fs.String("email", "", "user email address (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	store, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	svc := service.NewSuperadminService(store, noopQueue{}, nil)
	if err := svc.SetUserRole(context.Background(), cliActor, *email, membership.RoleSuperadmin); err != nil {
		return fmt.Errorf("promote: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Promoted %s to superadmin\n", *email)
	return nil
}

func runAdminResetPassword(args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	email := fs.String("email", "", "user email address (required)")
	password := fs.String("password", "", "new password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	newPass := *password
	if newPass == "" {
		var err error
		newPass, err = promptPassword("New password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if newPass != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	authSvc := service.NewAuthService(store, &cfg.Auth)
	if err := authSvc.AdminResetPassword(context.Background(), *email, newPass); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Password reset successfully for %s\n", *email)
	return nil
}

func runAdminListTenants(args []string) error {
	fs := flag.NewFlagSet("list-tenants", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	tenants, err := store.ListTenants(context.Background())
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	if len(tenants) == 0 {
		fmt.Println("No tenants found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSLUG\tACTIVE\tCREATED_AT")
	for i := range tenants {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			tenants[i].ID, tenants[i].Name, tenants[i].Slug, tenants[i].Active,
			tenants[i].CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// noopQueue satisfies the queue port for CLI commands that never publish
// beyond the audit mirror.
type noopQueue struct{}

func (noopQueue) Publish(context.Context, string, []byte) error { return nil }
func (noopQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}
func (noopQueue) Close() error { return nil }

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
