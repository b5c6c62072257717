package main

import (
	"github.com/spf13/cobra"
)

func NewTopmostCommand() *cobra.Command {
	return newEnableDisableCommand(
		"topmost",
		"keeping the widget on top",
		`When the widget is kept on top, battery status changes do not bring it to the foreground.`,
		func(enabled bool) (string, error) {
			return newAPIClient().SetTopmost(enabled)
		},
	)
}

func NewTransparencyCommand() *cobra.Command {
	return newEnableDisableCommand(
		"transparency",
		"widget transparency",
		`A transparent widget is drawn at 75% opacity instead of 85%.`,
		func(enabled bool) (string, error) {
			return newAPIClient().SetTransparency(enabled)
		},
	)
}
