package cmd

import (
	"context"
	"fmt"
	"time"

	"demo-data/internal/emit"
	"demo-data/internal/render"
	"demo-data/internal/source"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <template_source> [destination]",
	Short: "Generate demo events and deliver them",
	Long: `Load a JSON array of event templates from a URL or local file, fill in
date placeholders spread over the trailing window, and deliver the result.

The destination is inferred from its form: an http(s) URL is treated as a
webhook (one POST per event, flat JSON object); anything else is a local
output file. With no destination the events print to stdout.

Supported placeholders inside string values:
  {{ date }}         YYYY-MM-DD
  {{ date_us }}      MM/DD/YYYY
  {{ date_eu }}      DD/MM/YYYY
  {{ date_short }}   YYYYMMDD
  {{ syslog_date }}  BSD syslog, e.g. "Jan  6"
  {{ day_offset }}   days before today`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		fetchTimeout, err := time.ParseDuration(cfg.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("invalid fetch.timeout: %w", err)
		}
		ctx := context.Background()

		loader := source.NewLoader(fetchTimeout)
		templates, err := loader.Load(ctx, args[0])
		if err != nil {
			return err
		}

		mat := render.NewMaterializer(cfg.Window.Days)
		events := mat.Render(templates)

		if len(args) < 2 {
			return emit.Write(cmd.OutOrStdout(), events)
		}

		dest := args[1]
		if source.IsURL(dest) {
			sendTimeout, err := time.ParseDuration(cfg.Send.Timeout)
			if err != nil {
				return fmt.Errorf("invalid send.timeout: %w", err)
			}
			delay, err := time.ParseDuration(cfg.Send.Delay)
			if err != nil {
				return fmt.Errorf("invalid send.delay: %w", err)
			}
			sender := emit.NewSender(dest, sendTimeout).
				WithDelay(delay).
				WithWorkers(cfg.Send.Workers)
			sum := sender.Send(ctx, events)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sent, %d failed of %d\n",
				sum.Outcome(), sum.Sent, sum.Failed, sum.Total)
			for _, f := range sum.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f.Reason)
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d events failed to send", sum.Failed, sum.Total)
			}
			return nil
		}

		if err := emit.WriteFile(dest, events); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(events), dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
