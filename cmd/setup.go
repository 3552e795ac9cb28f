package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-enricher/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the credential file template",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CredentialPath()
		if err != nil {
			return err
		}

		created, err := config.WriteTemplate(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(os.Stdout, "Created %s\nAdd your Bright Data API key to it, or set %s.\n", path, config.APIKeyEnv)
		} else {
			fmt.Fprintf(os.Stdout, "%s already exists, left unchanged.\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
