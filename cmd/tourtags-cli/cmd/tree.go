package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"tourtags/internal/application"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/format"
)

var (
	treeDepth int
	treeJSON  bool
	treeSave  bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [node-key]",
	Short: "Display the tag tree",
	Long: `Display the tag tree as restored from the saved view state.

With --depth every node down to the given depth is expanded first. A node
key limits the output to that subtree.

Examples:
  tourtags-cli tree
  tourtags-cli tree --depth 2 --save
  tourtags-cli tree tag:3 --depth 3
  tourtags-cli tree --layout flat --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		tree, err := openView(ctx)
		if err != nil {
			return err
		}

		start := tagtree.RootID
		if len(args) == 1 {
			key, err := application.ParseKey(args[0])
			if err != nil {
				return err
			}
			id, ok := tree.Locate(ctx, key)
			if !ok {
				return &application.NodeNotFoundError{Key: key}
			}
			start = id
		}

		if treeDepth > 0 {
			expandTo(ctx, tree, start, treeDepth)
		}

		if treeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(jsonTree(tree, start)); err != nil {
				return err
			}
		} else {
			printTree(tree, start)
		}

		if treeSave {
			return saveView(ctx, tree)
		}
		return nil
	},
}

// expandTo expands every node below start down to depth levels.
func expandTo(ctx context.Context, tree *tagtree.Tree, start tagtree.NodeID, depth int) {
	if depth == 0 {
		return
	}
	children := tree.FetchChildren(ctx, start)
	if start != tagtree.RootID {
		children = tree.Expand(ctx, start)
	}
	if depth == 1 {
		return
	}
	for _, c := range children {
		expandTo(ctx, tree, c, depth-1)
	}
}

func printTree(tree *tagtree.Tree, start tagtree.NodeID) {
	base := tree.Depth(start)
	if start != tagtree.RootID {
		printRow(tree, start, 0)
	}

	var walk func(id tagtree.NodeID)
	walk = func(id tagtree.NodeID) {
		if !tree.IsExpanded(id) {
			return
		}
		children, _ := tree.Children(id)
		for _, c := range children {
			printRow(tree, c, tree.Depth(c)-base)
			walk(c)
		}
	}
	walk(start)
}

func printRow(tree *tagtree.Tree, id tagtree.NodeID, depth int) {
	v, ok := tree.Node(id)
	if !ok {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %-*s %s\n", indent, format.Expander(v), 40-len(indent), format.Label(v), format.Summary(v))
}

type nodeJSON struct {
	Key      string      `json:"key"`
	Name     string      `json:"name"`
	Stats    statsJSON   `json:"stats"`
	Fetched  bool        `json:"fetched"`
	Children []*nodeJSON `json:"children,omitempty"`
}

type statsJSON struct {
	Tours       int64   `json:"tours"`
	DistanceM   float64 `json:"distance_m"`
	ElapsedSec  int64   `json:"elapsed_s"`
	MovingSec   int64   `json:"moving_s"`
	PausedSec   int64   `json:"paused_s"`
	AltitudeUp  int64   `json:"altitude_up_m"`
	AvgSpeedKmh float64 `json:"avg_speed_kmh"`
	AvgPaceSec  float64 `json:"avg_pace_s_per_km"`
	AvgPulse    float64 `json:"avg_pulse,omitempty"`
	MaxPulse    float64 `json:"max_pulse,omitempty"`
}

// jsonTree mirrors the visible part of the tree below start.
func jsonTree(tree *tagtree.Tree, start tagtree.NodeID) *nodeJSON {
	v, _ := tree.Node(start)
	n := &nodeJSON{
		Key:     v.Key.String(),
		Name:    v.Name,
		Fetched: v.Fetched,
		Stats: statsJSON{
			Tours:       v.Stats.TourCount,
			DistanceM:   v.Stats.Distance,
			ElapsedSec:  v.Stats.ElapsedTime,
			MovingSec:   v.Stats.MovingTime,
			PausedSec:   v.Stats.PausedTime,
			AltitudeUp:  v.Stats.AltitudeUp,
			AvgSpeedKmh: v.Stats.AvgSpeed,
			AvgPaceSec:  v.Stats.AvgPace,
			AvgPulse:    v.Stats.AvgPulse,
			MaxPulse:    v.Stats.MaxPulse,
		},
	}
	if !tree.IsExpanded(start) {
		return n
	}
	children, _ := tree.Children(start)
	for _, c := range children {
		n.Children = append(n.Children, jsonTree(tree, c))
	}
	return n
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "expand every node down to this depth")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "print the tree as JSON")
	treeCmd.Flags().BoolVar(&treeSave, "save", false, "persist the resulting expand state")
	rootCmd.AddCommand(treeCmd)
}
