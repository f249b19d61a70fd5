// Package sessions holds the plain session management commands.
package sessions

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/cli"
	"github.com/companionai/companion/internal/configuration"
	"github.com/companionai/companion/internal/identity"
)

// NewCmd instantiates and returns the sessions command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
	}
	cmd.AddCommand(newListCmd(config, client))
	cmd.AddCommand(newNewCmd(config, client))
	cmd.AddCommand(newDeleteCmd(client))
	return cmd
}

func newListCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your chat sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := signedInUser(config)
			if err != nil {
				return err
			}

			sessions, err := client.ListSessions(cmd.Context(), userID)
			if err != nil {
				return errors.Wrap(err, "listing sessions")
			}

			cli.Title("Sessions (%d)", len(sessions))
			for _, session := range sessions {
				cli.Item("%s\n", session.Name)
				cli.Detail("  id: %s\n", session.ID)
			}
			cli.Separator()
			return nil
		},
	}
}

func newNewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		Name string
	}
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := signedInUser(config)
			if err != nil {
				return err
			}

			session, err := client.CreateSession(cmd.Context(), opts.Name, userID)
			if err != nil {
				return errors.Wrap(err, "creating session")
			}

			cli.Item("%s\n", session.Name)
			cli.Detail("  id: %s\n", session.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "New Chat", "Name of the session")
	return cmd
}

func newDeleteCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			if !opts.Force {
				confirmed, err := cli.Confirm("Delete session " + sessionID + "?")
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			if err := client.DeleteSession(cmd.Context(), sessionID); err != nil {
				return errors.Wrap(err, "deleting session")
			}
			cli.Detail("deleted %s\n", sessionID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func signedInUser(config *configuration.Config) (string, error) {
	userID := identity.FromConfig(config).UserID()
	if userID == "" {
		return "", errors.New("not signed in: set COMPANION_USER or user_id in the configuration file")
	}
	return userID, nil
}
