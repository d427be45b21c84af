package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var apikeyDescription string

// apikeyCmd manages bearer tokens for HTTP mode
var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys for HTTP mode",
}

// apikeyAddCmd mints a token for --user
var apikeyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an API key for a user",
	Long: `Create a bearer token for --user and print it once. Only a hash of
the token is stored.`,
	RunE: runAPIKeyAdd,
}

func init() {
	apikeyAddCmd.Flags().StringVar(&apikeyDescription, "description", "", "Where the key is used")
}

func runAPIKeyAdd(cmd *cobra.Command, args []string) error {
	d, err := openDeps(nil)
	if err != nil {
		return err
	}
	defer d.close()

	token := "folio_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := d.app.APIKeys.Create(cmd.Context(), userID, token, apikeyDescription); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
