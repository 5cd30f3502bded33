package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/dashboard"
	"github.com/kidwatch/kidwatch/internal/table"
)

func newContactsCmd(app *App) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Show contacts synced from the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			contacts, err := app.client.Contacts(cmd.Context(), deviceID)
			if err != nil {
				return err
			}
			t := table.Table[backend.Contact]{
				Columns:      dashboard.ContactColumns(),
				EmptyMessage: "No contacts found",
			}
			return t.Render(app.out, contacts)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	return cmd
}

func newCallsCmd(app *App) *cobra.Command {
	var (
		device string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Show the call log for the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			resp, err := app.client.Calls(cmd.Context(), deviceID, page)
			if err != nil {
				return err
			}
			t := table.Table[backend.CallRecord]{
				Columns:      dashboard.CallColumns(),
				EmptyMessage: "No call records found",
			}
			if err := t.Render(app.out, resp.CallRecords); err != nil {
				return err
			}
			printPagination(app, resp.Pagination)
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")
	return cmd
}

func newSMSCmd(app *App) *cobra.Command {
	var (
		device string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Show the SMS log for the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			resp, err := app.client.SMS(cmd.Context(), deviceID, page)
			if err != nil {
				return err
			}
			t := table.Table[backend.SMSRecord]{
				Columns:      dashboard.SMSColumns(),
				EmptyMessage: "No messages found",
			}
			if err := t.Render(app.out, resp.SMSRecords); err != nil {
				return err
			}
			printPagination(app, resp.Pagination)
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")
	return cmd
}

func newLocationsCmd(app *App) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Show the location history for the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			locations, err := app.client.Locations(cmd.Context(), deviceID)
			if err != nil {
				return err
			}
			t := table.Table[backend.Location]{
				Columns:      dashboard.LocationColumns(),
				EmptyMessage: "No location data found",
			}
			return t.Render(app.out, locations)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	return cmd
}

func newAppsCmd(app *App) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Show active applications on the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			apps, err := app.client.Applications(cmd.Context(), deviceID)
			if err != nil {
				return err
			}
			t := table.Table[backend.Application]{
				Columns:      dashboard.ApplicationColumns(),
				EmptyMessage: "No active applications",
			}
			return t.Render(app.out, apps)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	return cmd
}

func newProcessesCmd(app *App) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "processes",
		Short: "Show active processes on the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			procs, err := app.client.ProcessActivities(cmd.Context(), deviceID)
			if err != nil {
				return err
			}
			t := table.Table[backend.ProcessActivity]{
				Columns:      dashboard.ProcessColumns(),
				EmptyMessage: "No active processes",
			}
			return t.Render(app.out, procs)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	return cmd
}

func newNotificationsCmd(app *App) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show unread notifications on the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			notes, err := app.client.Notifications(cmd.Context(), deviceID)
			if err != nil {
				return err
			}
			t := table.Table[backend.Notification]{
				Columns:      dashboard.NotificationColumns(),
				EmptyMessage: "No unread notifications",
			}
			return t.Render(app.out, notes)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	return cmd
}

func printPagination(app *App, p backend.Pagination) {
	if p.Pages > 1 {
		fmt.Fprintf(app.out, "\nPage %d of %d (%d total)\n", p.Page, p.Pages, p.Total)
	}
}
