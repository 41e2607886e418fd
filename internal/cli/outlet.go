package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"field-visit-service/internal/services"
)

// NewOutletCommand creates the outlet command group.
func NewOutletCommand(rootOpts *RootOptions, deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outlet",
		Short: "Inspect and warm the outlet cache",
	}

	cmd.AddCommand(newOutletShowCommand(rootOpts, deps))
	cmd.AddCommand(newOutletWarmCommand(rootOpts, deps))

	return cmd
}

func newOutletShowCommand(rootOpts *RootOptions, deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:           "show <outlet-id>",
		Short:         "Show one outlet, cache first",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid outlet id %q", args[0])
			}

			outlets := services.NewOutletService(deps.Gateway, deps.Cache)
			outlet, err := outlets.OutletByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %d\n", outlet.ID)
			fmt.Fprintf(out, "name:     %s\n", outlet.Name)
			fmt.Fprintf(out, "location: %s\n", outlet.Location)
			fmt.Fprintf(out, "radius:   %d m\n", outlet.Radius)
			return nil
		},
	}
}

func newOutletWarmCommand(rootOpts *RootOptions, deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:           "warm <outlet-id>...",
		Short:         "Prefetch outlets into the cache",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid outlet id %q", arg)
				}
				ids = append(ids, id)
			}

			outlets := services.NewOutletService(deps.Gateway, deps.Cache)
			n, err := outlets.Warm(cmd.Context(), ids)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "warmed %d of %d outlets\n", n, len(ids))
			return nil
		},
	}
}
