package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"circletrust/backend/pkg/jwt"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "circlectl",
		Short: "CLI client for the Circle Trust API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Circle service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", os.Getenv("CIRCLE_TOKEN"), "Bearer token (defaults to $CIRCLE_TOKEN)")

	// token subcommand
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with the service secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			user, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			return runToken(secret, user, role, ttl, os.Stdout)
		},
	}
	tokenCmd.Flags().String("secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to $JWT_SECRET)")
	tokenCmd.Flags().StringP("user", "u", "", "User ID (required)")
	tokenCmd.Flags().String("role", "", "Role claim, e.g. admin")
	tokenCmd.Flags().Duration("ttl", jwt.DefaultTTL, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)

	// score subcommand
	rootCmd.AddCommand(&cobra.Command{
		Use:   "score <userId>",
		Short: "Show a user's trust score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(apiFlag, tokenFlag), "/circle/"+args[0]+"/score", os.Stdout)
		},
	})

	// stats subcommand
	rootCmd.AddCommand(&cobra.Command{
		Use:   "stats <userId>",
		Short: "Show a user's circle statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(apiFlag, tokenFlag), "/circle/"+args[0]+"/stats", os.Stdout)
		},
	})

	// refresh subcommand
	rootCmd.AddCommand(&cobra.Command{
		Use:   "refresh <userId>",
		Short: "Recompute one user's snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(newClient(apiFlag, tokenFlag), args[0], os.Stdout)
		},
	})

	// refresh-all subcommand
	refreshAllCmd := &cobra.Command{
		Use:   "refresh-all",
		Short: "Start a bulk refresh of every owner (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			wait, _ := cmd.Flags().GetBool("wait")
			return runRefreshAll(newClient(apiFlag, tokenFlag), wait, os.Stdout)
		},
	}
	refreshAllCmd.Flags().BoolP("wait", "w", false, "Block until the job finishes and print its report")
	rootCmd.AddCommand(refreshAllCmd)

	// job subcommand
	jobCmd := &cobra.Command{
		Use:   "job <jobId>",
		Short: "Show or cancel a bulk refresh job (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cancel, _ := cmd.Flags().GetBool("cancel")
			return runJob(newClient(apiFlag, tokenFlag), args[0], cancel, os.Stdout)
		},
	}
	jobCmd.Flags().Bool("cancel", false, "Cancel the job instead of showing it")
	rootCmd.AddCommand(jobCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runToken(secret, userID, role string, ttl time.Duration, out io.Writer) error {
	if secret == "" {
		return fmt.Errorf("--secret or $JWT_SECRET required")
	}
	if userID == "" {
		return fmt.Errorf("--user required")
	}
	token, err := jwt.GenerateToken(secret, userID, role, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
