package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/klyphq/klypstore/internal/auth"
	"github.com/klyphq/klypstore/internal/config"
	"github.com/klyphq/klypstore/internal/entities"
	"github.com/klyphq/klypstore/internal/entrypoint"
)

// LoginCommand signs a user in, remote-first with offline fallback
type LoginCommand struct {
	Role      string
	FirstName string
	LastName  string
	Phone     string
}

// NewLoginCommand creates a new LoginCommand
func NewLoginCommand() *LoginCommand {
	return &LoginCommand{}
}

// ParseFlags parses command line flags
func (cmd *LoginCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)

	fs.StringVar(&cmd.Role, "role", "student", "Role to sign in as: student or educator")
	fs.StringVar(&cmd.FirstName, "first", "", "Student first name")
	fs.StringVar(&cmd.LastName, "last", "", "Student last name")
	fs.StringVar(&cmd.Phone, "phone", "", "Educator phone number")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s login [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sign in against the Klyp service, falling back to the local\n")
		fmt.Fprintf(os.Stderr, "account when the service is unreachable.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s login -first Jane -last Doe\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s login -role educator -phone +447700900123\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the login command
func (cmd *LoginCommand) Run() error {
	app, err := entrypoint.New(config.NewConfig())
	if err != nil {
		return err
	}
	defer app.Close()

	var role entities.Role
	switch cmd.Role {
	case "student":
		role = entities.RoleStudent
	case "educator":
		role = entities.RoleEducator
	default:
		return fmt.Errorf("unknown role %q, expected student or educator", cmd.Role)
	}

	result, err := app.Auth.Login(context.Background(), auth.Credentials{
		Role:      role,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Phone:     cmd.Phone,
	})
	if err != nil {
		return err
	}

	if result.Offline {
		fmt.Printf("Signed in as %s (offline)\n", result.UserID)
	} else {
		fmt.Printf("Signed in as %s\n", result.UserID)
	}
	return nil
}
