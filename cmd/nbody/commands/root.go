package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var v = viper.New()

var flags struct {
	configFile string
	verbosity  int
	logFormat  string
}

// Root builds the nbody command tree: run advances a simulation,
// inspect exercises the octree's invariant checker against a generated
// body snapshot.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "nbody",
		Short: "Parallel-octree N-body simulator",
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file")
	root.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "increase log verbosity")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log output format: text|json")

	root.AddCommand(runCmd())
	root.AddCommand(inspectCmd())
	return root
}
