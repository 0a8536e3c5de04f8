package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginGoogleToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the Homely server",
	Long: `Authenticates against the configured Homely server and stores the
token pair for later commands.

Examples:
  homely login
  homely login --google-token <id-token>`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginGoogleToken, "google-token", "", "Google ID token (skip password login)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cc, err := newClientContext(ctx, false)
	if err != nil {
		return err
	}
	if cc.session.Authenticated() {
		fmt.Printf("Already signed in as %s. Run 'homely logout' first to switch accounts.\n",
			cc.session.User().Username)
		return nil
	}

	if loginGoogleToken != "" {
		user, err := cc.session.LoginWithGoogle(ctx, loginGoogleToken)
		if err != nil {
			return fmt.Errorf("Google sign-in failed: %w", err)
		}
		fmt.Printf("Signed in as %s\n", user.Username)
		return nil
	}

	fmt.Print("Username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil {
		return fmt.Errorf("reading username: %w", err)
	}

	fmt.Print("Password: ")
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	user, err := cc.session.Login(ctx, strings.TrimSpace(username), string(passBytes))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Signed in as %s\n", user.Username)
	return nil
}
