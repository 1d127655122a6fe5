package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ac-advisor/internal/catalog"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the catalog file and print the model count",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}
			tiers := map[catalog.PriceTier]int{}
			for _, r := range store.All() {
				tiers[r.PriceTier]++
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d models OK\n", catalogPath, store.Len())
			for _, t := range []catalog.PriceTier{catalog.Budget, catalog.Mid, catalog.Premium} {
				fmt.Fprintf(out, "  %-8s %d\n", t, tiers[t])
			}
			return nil
		},
	})
	return cmd
}
