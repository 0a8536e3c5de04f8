package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), false)
		if err != nil {
			return err
		}
		if !cc.session.Authenticated() {
			fmt.Println("Not signed in.")
			return nil
		}

		if err := cc.session.Logout(cmd.Context()); err != nil {
			// Local credentials are cleared regardless.
			fmt.Printf("Server logout failed (%v), local credentials cleared.\n", err)
			return nil
		}
		fmt.Println("Signed out.")
		return nil
	},
}
