package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/orrery-sim/octree-nbody/internal/body"
	"github.com/orrery-sim/octree-nbody/internal/spatial"
)

func inspectCmd() *cobra.Command {
	var n int
	var compact bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Build an octree from a generated body snapshot and report its shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			bodies := body.MakeBodies(n, nil)
			items := make([]spatial.WithPos[*body.Body], len(bodies))
			for i, b := range bodies {
				items[i] = spatial.WithPos[*body.Body]{Value: b, Pos: b.Pos}
			}

			const half = 0x1p16
			bound := spatial.New(
				spatial.Vec3{X: -half, Y: -half, Z: -half},
				spatial.Vec3{X: 2 * half, Y: 2 * half, Z: 2 * half})

			tree := spatial.Build(items, bound)
			totalSlots := tree.InternalCount()
			if compact {
				tree = tree.Compress()
			}

			fmt.Printf("items: %d\ninternal slots: %d (before compaction: %d)\n",
				tree.ItemCount(), tree.InternalCount(), totalSlots)

			root, err := tree.Root()
			if err != nil {
				fmt.Println("empty tree")
				return nil
			}

			widths := map[int]int{}
			var walk func(n spatial.Node[*body.Body], depth int)
			walk = func(n spatial.Node[*body.Body], depth int) {
				widths[depth]++
				for _, c := range n.Children() {
					walk(c, depth+1)
				}
			}
			walk(root, 0)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"depth", "node count"})
			for depth := 0; depth <= len(widths); depth++ {
				if count, ok := widths[depth]; ok {
					t.AppendRow(table.Row{depth, count})
				}
			}
			t.Render()

			spatial.Validate(tree)
			fmt.Println("invariants: ok")
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 1000, "number of bodies to generate")
	cmd.Flags().BoolVar(&compact, "compact", true, "compress the tree before reporting")
	return cmd
}
