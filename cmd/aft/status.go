package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/j-veylop/ai-footprint-tui/internal/impact"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/services"
)

type namer interface {
	Name(host string) (string, bool)
}

func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the tracked totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, mgr, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			resp := mgr.Handle(cmd.Context(), services.Request{Type: services.RequestGetState})
			if !resp.OK || resp.State == nil {
				return fmt.Errorf("load state: %s", resp.Error)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp.State)
			}
			return writeStatus(cmd.OutOrStdout(), *resp.State, mgr.Classifier())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw state as JSON")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset all tracked totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, mgr, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			resp := mgr.Handle(cmd.Context(), services.Request{Type: services.RequestResetTotals})
			if !resp.OK {
				return errors.New(resp.Error)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Totals reset.")
			return err
		},
	}
}

// writeStatus renders st as a short plain-text report.
func writeStatus(w io.Writer, st models.State, names namer) error {
	est := impact.Calculate(st.CumulativeMs)

	session := "Not active"
	if st.CurrentSession.Active {
		session = fmt.Sprintf("%s (%s)", st.CurrentSession.SiteName,
			impact.FormatDurationLong(st.CurrentSession.ElapsedMs))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Current session:\t%s\n", session)
	fmt.Fprintf(tw, "Total time:\t%s\n", impact.FormatDurationLong(st.CumulativeMs))
	fmt.Fprintf(tw, "CO₂:\t%.2f g\n", est.CO2Grams)
	fmt.Fprintf(tw, "Water:\t%.1f ml\n", est.WaterMl)
	fmt.Fprintf(tw, "Energy:\t%.2f Wh\n", est.EnergyWh)

	hosts := st.SortedHosts()
	if len(hosts) == 0 {
		fmt.Fprintln(tw, "\nNo tracked usage yet.")
		return tw.Flush()
	}

	fmt.Fprintln(tw, "\nSite\tHost\tTime")
	for _, h := range hosts {
		name := h.Host
		if names != nil {
			if n, ok := names.Name(h.Host); ok {
				name = n
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, h.Host, impact.FormatDurationLong(h.Ms))
	}
	return tw.Flush()
}
