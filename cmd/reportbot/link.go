package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m3rciful/reportbot/bots/placereport/place"
)

// Telegram caps the start parameter at 64 characters.
const maxStartParam = 64

var (
	linkBot     string
	linkName    string
	linkAddress string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print a deep link that opens a report for a place",
	Long: `Encode a place into a t.me deep link.

Examples:
  reportbot link --bot mapreportbot --name "Cafe Luna"
  reportbot link --bot mapreportbot --name "Cafe Luna" --address "Main St 5"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		link, err := deepLink(linkBot, place.Ref{Name: linkName, Address: linkAddress})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkBot, "bot", "", "Bot username, with or without @")
	linkCmd.Flags().StringVar(&linkName, "name", "", "Place name")
	linkCmd.Flags().StringVar(&linkAddress, "address", "", "Place address (optional)")
	_ = linkCmd.MarkFlagRequired("bot")
	_ = linkCmd.MarkFlagRequired("name")
}

func deepLink(bot string, ref place.Ref) (string, error) {
	bot = strings.TrimPrefix(strings.TrimSpace(bot), "@")
	if bot == "" {
		return "", fmt.Errorf("bot username is required")
	}
	ref.Name = strings.TrimSpace(ref.Name)
	ref.Address = strings.TrimSpace(ref.Address)
	if ref.Name == "" {
		return "", place.ErrEmptyName
	}
	if strings.Contains(ref.Name, place.Delimiter) {
		return "", fmt.Errorf("place name must not contain %q", place.Delimiter)
	}
	token := place.Encode(ref)
	if len(token) > maxStartParam {
		return "", fmt.Errorf("encoded payload is %d characters, Telegram accepts at most %d", len(token), maxStartParam)
	}
	return "https://t.me/" + url.PathEscape(bot) + "?start=" + token, nil
}
