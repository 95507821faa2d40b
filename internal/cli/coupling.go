package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapmapper/pkg/coupling"
	"github.com/matzehuels/swapmapper/pkg/layout"
	"github.com/matzehuels/swapmapper/pkg/pipeline"
	"github.com/matzehuels/swapmapper/pkg/render"
)

// couplingCommand creates the coupling command.
func (c *CLI) couplingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupling",
		Short: "Describe or draw coupling graphs",
		Long: `Describe or draw coupling graphs.

A coupling graph is given as a shorthand (line:5, ring:6, star:4, grid:2x3,
0-1,1-2) or as the path of a TOML file ending in .toml.`,
	}

	cmd.AddCommand(c.couplingShowCommand())
	cmd.AddCommand(c.couplingRenderCommand())

	return cmd
}

// couplingShowCommand creates the "coupling show" subcommand.
func (c *CLI) couplingShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [spec]",
		Short: "Print the qubits, edges and diameter of a coupling graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, g, err := loadCoupling(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, StyleTitle.Render(spec.String()))
			fmt.Fprintln(w, keyValue("Qubits", strconv.Itoa(g.Size())))
			fmt.Fprintln(w, keyValue("Edges", strconv.Itoa(len(g.Edges()))))
			if d, err := g.Diameter(); err == nil {
				fmt.Fprintln(w, keyValue("Diameter", strconv.Itoa(d)))
			} else {
				fmt.Fprintln(w, keyValue("Diameter", StyleWarning.Render("disconnected")))
			}

			edges := make([]string, 0, len(g.Edges()))
			for _, e := range g.Edges() {
				edges = append(edges, e.String())
			}
			fmt.Fprintln(w, keyValue("Edge list", strings.Join(edges, " ")))
			return nil
		},
	}
}

// couplingRenderCommand creates the "coupling render" subcommand.
func (c *CLI) couplingRenderCommand() *cobra.Command {
	var (
		output string
		format string
		place  string
	)

	cmd := &cobra.Command{
		Use:   "render [spec]",
		Short: "Draw a coupling graph as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = renderFormatFor(output)
			}
			if err := pipeline.ValidateRenderFormat(format); err != nil {
				return err
			}
			_, g, err := loadCoupling(args[0])
			if err != nil {
				return err
			}

			var opts render.Options
			if place != "" {
				if opts.Layout, err = layout.Parse(place); err != nil {
					return err
				}
			}

			data := []byte(render.ToDOT(g, opts))
			if format == pipeline.RenderSVG {
				if data, err = render.SVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printSuccess("Rendered %s", StyleHighlight.Render(args[0]))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "dot or svg (default: from the output extension, svg otherwise)")
	cmd.Flags().StringVarP(&place, "layout", "l", "", "label physical qubits with a layout, e.g. q[0]=2,q[1]=0")

	return cmd
}

// loadCoupling reads a coupling graph from a shorthand or a .toml file.
func loadCoupling(arg string) (coupling.Spec, *coupling.Graph, error) {
	var (
		spec coupling.Spec
		err  error
	)
	if filepath.Ext(arg) == ".toml" {
		spec, err = readCouplingFile(arg)
	} else {
		spec, err = coupling.Parse(arg)
	}
	if err != nil {
		return coupling.Spec{}, nil, err
	}
	g, err := spec.Build()
	if err != nil {
		return coupling.Spec{}, nil, err
	}
	return spec, g, nil
}
