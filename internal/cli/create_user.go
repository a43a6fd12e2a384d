package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
	"github.com/Crabmann2025/Book-Alchemy/internal/config"
	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/database/users"
)

// CreateUserCommand adds a local account for AUTH_MODE=local.
type CreateUserCommand struct {
	Username     string
	Password     string
	DatabasePath string
	BcryptCost   int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{BcryptCost: config.NewConfig().Auth.BcryptCost}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Login name, 3-64 letters, digits, '_' or '-' (required)")
	fs.StringVar(&cmd.Password, "password", "", fmt.Sprintf("Password, at least %d characters (required)", auth.MinPasswordLength))
	fs.StringVar(&cmd.DatabasePath, "db", config.NewConfig().Database.Path, "Path to the catalog database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user who can add and delete books when AUTH_MODE=local.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), config.Auth{
		Mode:       config.AuthModeLocal,
		BcryptCost: cmd.BcryptCost,
	})

	user, err := service.CreateUser(cmd.Username, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", cmd.Username, err)
	}

	fmt.Printf("Created user %q (id %d) in %s\n", user.Username, user.ID, cmd.DatabasePath)
	return nil
}
