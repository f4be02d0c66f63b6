package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/klyphq/klypstore/internal/config"
	"github.com/klyphq/klypstore/internal/entrypoint"
)

// LogoutCommand clears the session and stored credentials
type LogoutCommand struct{}

// NewLogoutCommand creates a new LogoutCommand
func NewLogoutCommand() *LogoutCommand {
	return &LogoutCommand{}
}

// ParseFlags parses command line flags
func (cmd *LogoutCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s logout\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Clear the current session and all stored credentials.\n")
	}

	return fs.Parse(args)
}

// Run executes the logout command
func (cmd *LogoutCommand) Run() error {
	app, err := entrypoint.New(config.NewConfig())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}
