package main

import (
    "context"
    "database/sql"
    "fmt"
    "os"

    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/config"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/repository"
    "github.com/bandoneon/soundbank/internal/service"
)

func userCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "user",
        Short: "Manage accounts",
    }

    var email, password, role string
    create := &cobra.Command{
        Use:   "create",
        Short: "Create an account; the only way to create admins",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            if password == "" {
                password = os.Getenv("SOUNDBANK_PASSWORD")
            }
            return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
                auth := service.NewAuthService(repository.NewUserRepo(db), nil, config.LoadBcryptCost(), zap.NewNop())
                u, err := auth.CreateUser(ctx, email, password, role)
                if err != nil {
                    return err
                }
                fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
                return nil
            })
        },
    }
    create.Flags().StringVar(&email, "email", "", "account email (required)")
    create.Flags().StringVar(&password, "password", "", "account password; falls back to SOUNDBANK_PASSWORD")
    create.Flags().StringVar(&role, "role", model.RoleAdmin, "account role (admin or user)")
    _ = create.MarkFlagRequired("email")

    cmd.AddCommand(create)
    return cmd
}
