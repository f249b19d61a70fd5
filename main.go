package main

import (
	"github.com/spf13/cobra"

	"github.com/companionai/companion/cli/chat"
	"github.com/companionai/companion/cli/sessions"
	"github.com/companionai/companion/cli/speak"
	"github.com/companionai/companion/cli/voices"
	"github.com/companionai/companion/internal/api"
	"github.com/companionai/companion/internal/configuration"
)

const configFilepath = "~/.companion/config.json"

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "A terminal client for your AI companion",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	// Instantiate the backend client.
	client := api.New(config.APIURL, config.Timeout())

	rootCmd.AddCommand(chat.NewCmd(config, client))
	rootCmd.AddCommand(sessions.NewCmd(config, client))
	rootCmd.AddCommand(voices.NewCmd(config, client))
	rootCmd.AddCommand(speak.NewCmd(config, client))
	rootCmd.Execute()
}
