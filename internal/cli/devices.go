package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/dashboard"
	"github.com/kidwatch/kidwatch/internal/table"
)

func newDevicesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List monitored devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devctx := dashboard.NewDeviceContext(app.client, app.sessions, app.logger)
			if err := devctx.Load(cmd.Context()); err != nil {
				return err
			}

			t := table.Table[backend.Device]{
				Columns:      dashboard.DeviceColumns(),
				EmptyMessage: "No devices found",
			}
			if err := t.Render(app.out, devctx.Devices()); err != nil {
				return err
			}

			if selected := devctx.Selected(); selected != "" {
				fmt.Fprintf(app.out, "\nSelected device: %s\n", selected)
			}
			return nil
		},
	}
}

func newSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <deviceId>",
		Short: "Choose the device shown by data commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			devctx := dashboard.NewDeviceContext(app.client, app.sessions, app.logger)
			if err := devctx.Load(cmd.Context()); err != nil {
				return err
			}
			if err := devctx.Select(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Selected device: %s\n", args[0])
			return nil
		},
	}
}

// resolveDevice returns the device id a data command should use: the
// explicit flag when given, otherwise the stored selection resolved
// against the visible device list.
func (a *App) resolveDevice(ctx context.Context, flagDevice string) (string, error) {
	devctx := dashboard.NewDeviceContext(a.client, a.sessions, a.logger)
	if err := devctx.Load(ctx); err != nil {
		return "", err
	}

	if flagDevice != "" {
		if err := devctx.Select(flagDevice); err != nil {
			return "", err
		}
		return flagDevice, nil
	}

	selected := devctx.Selected()
	if selected == "" {
		return "", fmt.Errorf("no device available")
	}
	return selected, nil
}
