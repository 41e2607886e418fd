package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"field-visit-service/internal/adapters/camera"
	"field-visit-service/internal/adapters/location"
	"field-visit-service/internal/ports"
	"field-visit-service/internal/services"
)

// CheckOutOptions holds flags for the checkout command.
type CheckOutOptions struct {
	*RootOptions
	VisitID     int
	Report      string
	Transaction string
	PhotoPath   string
	Lat         float64
	Lon         float64
}

// NewCheckOutCommand creates the checkout command.
func NewCheckOutCommand(rootOpts *RootOptions, deps *Deps) *cobra.Command {
	opts := &CheckOutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Close an open visit",
		Long: `Close an open visit with a report, a transaction outcome, and a photo.
Position is optional at check-out; when --lat/--lon are omitted the
visit is closed without one.

Example:
  visitctl checkout --visit 42 --transaction YES --report "Restock 3 karton" --photo out.jpg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckOut(cmd, opts, deps)
		},
	}

	cmd.Flags().IntVar(&opts.VisitID, "visit", 0, "visit id to close (required)")
	cmd.Flags().StringVar(&opts.Report, "report", "", "visit report text (required)")
	cmd.Flags().StringVar(&opts.Transaction, "transaction", "", "transaction outcome, YES or NO (required)")
	cmd.Flags().StringVar(&opts.PhotoPath, "photo", "", "path to the check-out photo (required)")
	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "current latitude")
	cmd.Flags().Float64Var(&opts.Lon, "lon", 0, "current longitude")
	_ = cmd.MarkFlagRequired("visit")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("transaction")
	_ = cmd.MarkFlagRequired("photo")

	return cmd
}

func runCheckOut(cmd *cobra.Command, opts *CheckOutOptions, deps *Deps) error {
	ctx := cmd.Context()

	var provider ports.LocationProvider = location.Unavailable{}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		provider = location.NewStaticProvider(opts.Lat, opts.Lon)
	}

	photos := camera.NewFilePhotoSource(opts.PhotoPath)
	flow := services.NewCheckOutWorkflow(deps.Gateway, provider, photos, camera.FlipHorizontal)

	if err := flow.Load(ctx, opts.VisitID); err != nil {
		return fmt.Errorf("load visit %d: %w", opts.VisitID, err)
	}
	flow.SetReport(opts.Report)
	if err := flow.SetTransaction(opts.Transaction); err != nil {
		return err
	}

	if err := flow.Submit(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checked out: visit %d closed\n", opts.VisitID)
	return nil
}
