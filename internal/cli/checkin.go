package cli

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"field-visit-service/internal/adapters/camera"
	"field-visit-service/internal/adapters/location"
	"field-visit-service/internal/services"
)

// CheckInOptions holds flags for the checkin command.
type CheckInOptions struct {
	*RootOptions
	OutletID  int
	Lat       float64
	Lon       float64
	PhotoPath string
	VisitType string
}

// NewCheckInCommand creates the checkin command.
func NewCheckInCommand(rootOpts *RootOptions, deps *Deps) *cobra.Command {
	opts := &CheckInOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check in at an outlet",
		Long: `Check in at an outlet. The position is validated against the outlet
geofence before anything is sent, then the availability gate and the
photo upload run against the server.

Example:
  visitctl checkin --outlet 12 --lat -6.20853 --lon 106.8456 --photo selfie.jpg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckIn(cmd, opts, deps)
		},
	}

	cmd.Flags().IntVar(&opts.OutletID, "outlet", 0, "outlet id (required)")
	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "current latitude (required)")
	cmd.Flags().Float64Var(&opts.Lon, "lon", 0, "current longitude (required)")
	cmd.Flags().StringVar(&opts.PhotoPath, "photo", "", "path to the check-in photo (required)")
	cmd.Flags().StringVar(&opts.VisitType, "type", "adhoc", "visit type (scheduled|adhoc)")
	_ = cmd.MarkFlagRequired("outlet")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("photo")

	return cmd
}

func runCheckIn(cmd *cobra.Command, opts *CheckInOptions, deps *Deps) error {
	ctx := cmd.Context()

	outlets := services.NewOutletService(deps.Gateway, deps.Cache)
	outlet, err := outlets.OutletByID(ctx, opts.OutletID)
	if err != nil {
		return fmt.Errorf("load outlet %d: %w", opts.OutletID, err)
	}

	provider := location.NewStaticProvider(opts.Lat, opts.Lon)
	flow := services.NewCheckInWorkflow(deps.Gateway, provider, deps.FallbackRadius)
	flow.SetVisitType(opts.VisitType)
	flow.SelectOutlet(outlet)

	if err := flow.RefreshLocation(ctx); err != nil {
		return fmt.Errorf("acquire location: %w", err)
	}
	if opts.Verbose {
		eval := flow.Evaluation()
		if eval.DistanceMeters != nil {
			log.Printf("checkin outlet=%d distance_m=%.1f radius_m=%d", outlet.ID, *eval.DistanceMeters, eval.EffectiveRadius)
		}
	}

	if err := flow.Proceed(ctx); err != nil {
		var fenceErr *services.GeofenceError
		if errors.As(err, &fenceErr) {
			return fenceErr
		}
		return err
	}

	photo, err := camera.NewFilePhotoSource(opts.PhotoPath).Capture(ctx)
	if err != nil {
		return err
	}

	visit, err := flow.Submit(ctx, photo)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checked in: visit %d at %s (%s)\n", visit.ID, visit.OutletName, visit.CheckInAt.Format("15:04:05"))
	return nil
}
