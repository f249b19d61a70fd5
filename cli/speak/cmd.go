// Package speak holds the one-shot text-to-speech command.
package speak

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/audio"
	"github.com/companionai/companion/internal/cli"
	"github.com/companionai/companion/internal/configuration"
)

// NewCmd instantiates and returns the speak command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		Voice  string
		Output string
	}
	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize text to speech and play it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			voice := opts.Voice
			if voice == "" {
				voice = config.DefaultVoice
			}

			data, err := client.Synthesize(cmd.Context(), text, voice)
			if err != nil {
				return errors.Wrap(err, "synthesizing speech")
			}

			if opts.Output != "" {
				if err := os.WriteFile(opts.Output, data, 0644); err != nil {
					return errors.Wrap(err, "writing audio file")
				}
				cli.Detail("wrote %d bytes to %s\n", len(data), opts.Output)
				return nil
			}

			player := audio.NewPlayer()
			defer player.Close()
			playback, err := player.Play(data)
			if err != nil {
				return errors.Wrap(err, "playing speech")
			}
			defer playback.Close()

			select {
			case <-playback.Done():
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Voice, "voice", "v", "", "Voice to use (defaults to the configured voice)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the audio to a file instead of playing it")
	return cmd
}
