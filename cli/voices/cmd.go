// Package voices holds the voice catalog command.
package voices

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/cli"
	"github.com/companionai/companion/internal/configuration"
)

// NewCmd instantiates and returns the voices command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the voices available for speech playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			voices, err := client.ListVoices(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "listing voices")
			}

			cli.Title("Voices (%d)", len(voices))
			for _, voice := range voices {
				marker := " "
				if voice.ID == config.DefaultVoice {
					marker = "*"
				}
				cli.Item("%s %s\n", marker, voice.Name)
				cli.Detail("    id: %s\n", voice.ID)
			}
			cli.Separator()
			cli.Detail("* default voice\n")
			return nil
		},
	}
}
