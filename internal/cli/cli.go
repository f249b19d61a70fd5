// Package cli holds terminal output helpers for the plain (non-TUI)
// commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output.
	itemColor      = color.New(color.FgCyan)
	detailColor    = color.New(color.FgWhite)
	titleColor     = color.New(color.FgMagenta, color.Bold)
	separatorColor = color.New(color.FgHiBlack)
	errorColor     = color.New(color.FgRed)

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// Item prints a list entry.
func Item(text string, args ...any) {
	itemColor.Printf(text, args...)
}

// Detail prints supporting information under an item.
func Detail(text string, args ...any) {
	detailColor.Printf(text, args...)
}

// Error prints a failure.
func Error(text string, args ...any) {
	errorColor.Printf(text, args...)
}

// Confirm asks the user a yes/no question, defaulting to no.
func Confirm(question string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{Message: question}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
