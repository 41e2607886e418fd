package cli

import (
	"github.com/spf13/cobra"

	"field-visit-service/internal/ports"
)

// Deps carries the wired backends the commands run against. The
// composition root in cmd/visitctl builds one from the environment.
type Deps struct {
	Gateway ports.VisitGateway
	Cache   ports.OutletCache // nil disables the read-through cache

	FallbackRadius int
}

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the visitctl root command.
func NewRootCommand(deps *Deps) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "visitctl",
		Short:         "Field visit check-in and check-out client",
		Long:          "visitctl drives the field visit workflow: geofenced check-in, report and photo based check-out, and outlet cache maintenance.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewCheckInCommand(opts, deps))
	cmd.AddCommand(NewCheckOutCommand(opts, deps))
	cmd.AddCommand(NewOutletCommand(opts, deps))
	cmd.AddCommand(NewLogoutCommand(opts, deps))

	return cmd
}
