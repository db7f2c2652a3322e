package ui

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

func defaultStdio() terminal.Stdio {
	return terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// PromptConfirm asks a yes/no question. Destructive commands use it to
// guard bulk replacement.
func PromptConfirm(label string, defaultYes bool) (bool, error) {
	return PromptConfirmWithStdio(label, defaultYes, defaultStdio())
}

// PromptSelect asks the user to pick one option.
func PromptSelect(label string, options []string) (string, error) {
	return PromptSelectWithStdio(label, options, defaultStdio())
}

// PromptConfirmWithStdio is PromptConfirm with custom stdio, so tests can
// drive it through a virtual terminal.
func PromptConfirmWithStdio(label string, defaultYes bool, stdio terminal.Stdio) (bool, error) {
	confirmed := defaultYes
	prompt := &survey.Confirm{
		Message: label,
		Default: defaultYes,
	}
	err := survey.AskOne(prompt, &confirmed, survey.WithStdio(stdio.In, stdio.Out, stdio.Err))
	return confirmed, err
}

// PromptSelectWithStdio is PromptSelect with custom stdio.
func PromptSelectWithStdio(label string, options []string, stdio terminal.Stdio) (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: label,
		Options: options,
	}
	err := survey.AskOne(prompt, &choice, survey.WithStdio(stdio.In, stdio.Out, stdio.Err))
	return choice, err
}
