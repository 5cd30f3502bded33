package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/dashboard"
	"github.com/kidwatch/kidwatch/internal/table"
)

func newWatchCmd(app *App) *cobra.Command {
	var (
		device   string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously refresh the call log for the selected device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := app.resolveDevice(cmd.Context(), device)
			if err != nil {
				return err
			}

			t := table.Table[backend.CallRecord]{
				Columns:      dashboard.CallColumns(),
				EmptyMessage: "No call records found",
			}

			// A slow response from an earlier tick must not overwrite a
			// newer one, so fetches go through the loader and superseded
			// results are dropped.
			loader := &dashboard.Loader[*backend.CallsResponse]{}
			defer loader.Close()

			results := make(chan *backend.CallsResponse)
			errs := make(chan error)

			fetch := func() {
				loader.Fetch(cmd.Context(), func(ctx context.Context) (*backend.CallsResponse, error) {
					return app.client.Calls(ctx, deviceID, 0)
				}, func(resp *backend.CallsResponse, err error) {
					if err != nil {
						errs <- err
						return
					}
					results <- resp
				})
			}

			fetch()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					fetch()
				case err := <-errs:
					return err
				case resp := <-results:
					fmt.Fprintf(app.out, "--- %s ---\n", time.Now().Format("15:04:05"))
					if err := t.Render(app.out, resp.CallRecords); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device id (defaults to the selected device)")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "refresh interval")
	return cmd
}
