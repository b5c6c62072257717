package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battbar/pkg/client"
	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/termview"
	"github.com/charlie0129/battbar/pkg/widget"
)

type statusData struct {
	state   *widget.Values
	battery *powerinfo.Report
	config  *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData(api *client.Client) (*statusData, error) {
	state, err := api.GetState()
	if err != nil {
		return nil, fmt.Errorf("failed to get widget state: %w", err)
	}

	bat, err := api.GetBattery()
	if err != nil {
		return nil, fmt.Errorf("failed to get battery report: %w", err)
	}

	conf, err := api.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		state:   state,
		battery: bat,
		config:  conf,
	}, nil
}

type statusJSON struct {
	Widget        widget.Values         `json:"widget"`
	Battery       powerinfo.Report      `json:"battery"`
	Configuration *config.RawFileConfig `json:"configuration"`
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of battbar",
		Long:    `Get the widget state, battery report, and configuration from the daemon.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData(newAPIClient())
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(statusJSON{
					Widget:        *data.state,
					Battery:       *data.battery,
					Configuration: data.config,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal status: %w", err)
				}
				cmd.Println(string(b))
				return nil
			}

			printStatus(cmd, data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func printStatus(cmd *cobra.Command, data *statusData) {
	conf := config.NewFileFromConfig(data.config, "")

	cmd.Println(termview.Render(*data.state, termview.DefaultCells))
	cmd.Println()

	// Battery Info.
	cmd.Println(bold("Battery status:"))
	cmd.Printf("  State: %s\n", bold("%s", stateText(data.battery.Status)))
	cmd.Printf("  Charge: %s\n", bold("%d%%", data.state.Percentage))
	cmd.Printf("  Remaining: %s\n", bold("%s", milli(data.battery.Remaining, "Wh")))
	cmd.Printf("  Full capacity: %s\n", bold("%s", milli(data.battery.FullCharge, "Wh")))
	cmd.Printf("  Design capacity: %s\n", bold("%s", milli(data.battery.Design, "Wh")))
	cmd.Printf("  Charge rate: %s\n", rateText(data.battery.ChargeRate))

	cmd.Println()

	// Config.
	cmd.Println(bold("Widget configuration:"))
	cmd.Printf("  Refresh interval: %s\n", bold("%s", conf.RefreshInterval()))
	cmd.Printf("  Keep on top: %s\n", bool2Text(conf.Topmost()))
	cmd.Printf("  Transparent: %s\n", bool2Text(conf.Transparency()))
	cmd.Printf("  Window width: %s\n", bold("%d", conf.WindowWidth()))
	if conf.BackgroundImage() != "" {
		cmd.Printf("  Background image: %s\n", bold("%s", conf.BackgroundImage()))
	}
	cmd.Printf("  Log to file: %s\n", bool2Text(conf.Logging()))
}

func stateText(s powerinfo.Status) string {
	switch s {
	case powerinfo.Charging:
		return color.GreenString("charging")
	case powerinfo.Discharging:
		return color.RedString("discharging")
	case powerinfo.Idle:
		return "not charging"
	default:
		return color.YellowString("no battery")
	}
}

// rateText shows the charge rate in Watts with sign (+ charging, - discharging).
func rateText(rate *int) string {
	if rate == nil {
		return bold("n/a")
	}
	watts := float64(*rate) / 1e3
	switch {
	case watts > 0:
		return color.New(color.Bold, color.FgGreen).Sprintf("%+.1f W", watts)
	case watts < 0:
		return color.New(color.Bold, color.FgRed).Sprintf("%+.1f W", watts)
	default:
		return bold("%+.1f W", watts)
	}
}

func milli(v *int, unit string) string {
	if v == nil {
		return "n/a"
	}
	return humanize.SIWithDigits(float64(*v)/1e3, 1, unit)
}
