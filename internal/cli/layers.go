package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapmapper/pkg/circuit"
	"github.com/matzehuels/swapmapper/pkg/qasm"
)

// layersCommand creates the layers command.
func (c *CLI) layersCommand() *cobra.Command {
	var flags routeFlags

	cmd := &cobra.Command{
		Use:   "layers [file]",
		Short: "Show the layer decomposition of a circuit",
		Long: `Print the layers the router processes, one row per layer.

With a coupling graph (--coupling, --coupling-file or the config file) the
circuit is routed as well and the swaps inserted before each layer are shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayers(cmd, args[0], &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runLayers(cmd *cobra.Command, arg string, flags *routeFlags) error {
	cfg, opts, err := flags.prepare(c, cmd, arg)
	if err != nil {
		return err
	}

	in, err := qasm.Parse(opts.Circuit)
	if err != nil {
		return err
	}
	mode, err := circuit.ParseLayerMode(opts.LayerMode)
	if err != nil {
		return err
	}
	layers := in.Layers(mode)

	var swaps map[int]int
	if !opts.Coupling.IsZero() {
		runner, res, err := c.execute(cmd.Context(), cfg, opts, flags.noCache)
		if err != nil {
			return err
		}
		defer runner.Close()
		swaps = make(map[int]int)
		for _, st := range res.Report.Trace {
			swaps[st.Layer] += len(st.Swaps)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), layerTable(layers, swaps))
	return nil
}

// layerTable renders one row per layer. A nil swaps map omits the swaps
// column.
func layerTable(layers []*circuit.Circuit, swaps map[int]int) string {
	headers := []string{"Layer", "Ops", "Gates"}
	if swaps != nil {
		headers = append(headers, "Swaps")
	}
	t := newTable(headers...)
	for i, l := range layers {
		row := []string{strconv.Itoa(i), strconv.Itoa(l.Size()), layerSummary(l)}
		if swaps != nil {
			row = append(row, strconv.Itoa(swaps[i]))
		}
		t.Row(row...)
	}
	return t.Render()
}

// layerSummary lists the operations of a layer, two-qubit gates first.
func layerSummary(l *circuit.Circuit) string {
	var two, one []string
	for _, op := range l.Ops() {
		if op.IsTwoQubit() {
			two = append(two, qasm.Statement(op))
		} else {
			one = append(one, qasm.Statement(op))
		}
	}
	return strings.Join(append(two, one...), "; ")
}
