// Command server runs the soundbank API and its maintenance tasks.
package main

import (
    "fmt"
    "os"

    "github.com/spf13/cobra"

    "github.com/bandoneon/soundbank/internal/config"
)

var (
    version   = "dev"
    buildDate = "unknown"
)

func main() {
    if err := rootCmd().Execute(); err != nil {
        fmt.Fprintf(os.Stderr, "Error: %v\n", err)
        os.Exit(1)
    }
}

func rootCmd() *cobra.Command {
    var envFile string

    cmd := &cobra.Command{
        Use:           "soundbank",
        Short:         "Soundbank catalog and account API",
        SilenceUsage:  true,
        SilenceErrors: true,
        PersistentPreRun: func(cmd *cobra.Command, args []string) {
            config.LoadDotEnv(envFile)
        },
    }
    cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file loaded before reading the environment")

    cmd.AddCommand(serveCmd(), migrateCmd(), userCmd())
    cmd.AddCommand(&cobra.Command{
        Use:   "version",
        Short: "Print version information",
        Run: func(cmd *cobra.Command, args []string) {
            fmt.Printf("soundbank %s (build: %s)\n", version, buildDate)
        },
    })
    return cmd
}
