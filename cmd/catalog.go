package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guimove/eas-sim/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List EC2 instance families and the topology they derive",
	Long: `Lists EC2 instance types matching the given filters and the
little/middle/big topology internal/catalog would derive from each one's
vCPU count and sustained clock speed, so a 'compare' run can be seeded with
a real fleet's core layout instead of a synthetic one.`,
	RunE: runCatalog,
}

func init() {
	f := catalogCmd.Flags()
	f.StringSlice("families", nil, "restrict to these instance families (e.g. m7g,c7g)")
	f.Int32("min-vcpus", 0, "minimum vCPU count")
	f.Int32("max-vcpus", 0, "maximum vCPU count")
	f.Bool("current-generation", true, "restrict to current-generation instance types")
	f.Bool("with-pricing", false, "enrich results with on-demand pricing")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	provider, err := catalog.NewAWSProvider(ctx, cfg.AWS.Region, cfg.AWS.CacheDir)
	if err != nil {
		return err
	}

	families, _ := cmd.Flags().GetStringSlice("families")
	minVCPUs, _ := cmd.Flags().GetInt32("min-vcpus")
	maxVCPUs, _ := cmd.Flags().GetInt32("max-vcpus")
	currentGen, _ := cmd.Flags().GetBool("current-generation")

	instances, err := provider.ListInstances(ctx, catalog.InstanceFilter{
		Families:              families,
		MinVCPUs:              minVCPUs,
		MaxVCPUs:              maxVCPUs,
		CurrentGenerationOnly: currentGen,
	})
	if err != nil {
		return err
	}

	if withPricing, _ := cmd.Flags().GetBool("with-pricing"); withPricing {
		enriched, err := provider.EnrichWithPricing(ctx, instances)
		if err != nil {
			return fmt.Errorf("enriching with pricing: %w", err)
		}
		if verbose {
			fmt.Printf("priced %d/%d instance types\n", enriched, len(instances))
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTANCE TYPE\tVCPUS\tCLOCK GHZ\tTOPOLOGY\tON-DEMAND $/H")
	for _, inst := range instances {
		topo := inst.Topology()
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%.4f\n",
			inst.InstanceType, inst.VCPUs, inst.SustainedClockGHz, topo.Label(), inst.OnDemandPricePerHour)
	}
	return tw.Flush()
}
