package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session and spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := newClientContext(cmd.Context(), false)
		if err != nil {
			return err
		}

		user := cc.session.User()
		if user == nil {
			fmt.Println("Not signed in. Run 'homely login' to sign in.")
			return nil
		}

		fmt.Printf("Signed in as %s (%s)\n", user.Username, user.Email)

		spaces := cc.spaces.MySpaces()
		fmt.Printf("Spaces: %d\n", len(spaces))
		for _, s := range spaces {
			marker := " "
			if s.IsDefault {
				marker = "*"
			}
			fmt.Printf("  %s %s  %s\n", marker, s.UID, s.Name)
		}
		return nil
	},
}
