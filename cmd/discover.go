package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/eas-sim/internal/kube"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Derive a CPU topology from a live Kubernetes cluster",
	Long: `Lists the target cluster's Nodes and buckets their allocatable CPU
into little/middle/big performance domains, the way internal/kube's
DiscoverTopology does it, so a 'compare' run can be seeded with a live
cluster's actual core layout instead of a synthetic one.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, _, kubeContext, inCluster, err := kube.NewClient(cfg.Kubernetes.Kubeconfig, cfg.Kubernetes.Context)
	if err != nil {
		return fmt.Errorf("connecting to Kubernetes: %w", err)
	}
	if verbose {
		fmt.Printf("connected to context %q (in-cluster: %v)\n", kubeContext, inCluster)
	}

	desc, err := kube.DiscoverTopology(ctx, client)
	if err != nil {
		return fmt.Errorf("discovering topology: %w", err)
	}

	fmt.Printf("topology: %s\n", desc.Label())
	for class, n := range desc.Counts {
		fmt.Printf("  %-8s %d cores\n", class, n)
	}
	fmt.Printf("total: %d cores\n", desc.Total())
	return nil
}
