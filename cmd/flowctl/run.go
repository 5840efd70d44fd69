package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/valaphee/flowgo/internal/domain/executor/builtin"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/runtime/host"
	"github.com/valaphee/flowgo/internal/runtime/scope"
)

func newRunCmd() *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "run <graph.json>",
		Short: "Construct a scope from a graph document and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			g, err := graph.Parse(data)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			if trace {
				g, err = withTraceSinks(g)
				if err != nil {
					return err
				}
			}

			s, err := scope.Construct(g, builtin.NewDefaultRegistry(), host.Goroutine{}, nil, nil)
			if err != nil {
				return fmt.Errorf("bind: %w", err)
			}

			s.Run(context.Background())
			s.Wait()

			fmt.Printf("scope %s collected\n", s.ID())
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print every Sink node's observed value to stdout")
	return cmd
}

// withTraceSinks rebuilds g with a print Recorder wired into every Sink
// node's Config, so --trace works without the graph document itself
// knowing about the CLI.
func withTraceSinks(g *graph.Graph) (*graph.Graph, error) {
	nodes := g.Nodes()
	for i, n := range nodes {
		if n.Kind != graph.KindSink {
			continue
		}
		cfg := make(map[string]any, len(n.Config)+1)
		for k, v := range n.Config {
			cfg[k] = v
		}
		for k, v := range builtin.WithRecorder(func(nodeID string, value any) {
			fmt.Printf("sink %s: %v\n", nodeID, value)
		}) {
			cfg[k] = v
		}
		nodes[i].Config = cfg
	}
	return graph.New(g.Name(), nodes)
}
