package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/configuration"
	"github.com/companionai/companion/internal/debug"
	"github.com/companionai/companion/internal/identity"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive companion chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := clipboard.Init(); err != nil {
				debug.GetLogger().Warn("clipboard unavailable", "error", err)
			}

			provider := identity.FromConfig(config)
			m, err := NewModel(ctx, config, client, provider, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)

			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "running chat")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SessionID, "session", "", "open a specific session id")
	cmd.Flags().StringVarP(&opts.Voice, "voice", "v", "", "voice used to speak replies")
	return cmd
}
