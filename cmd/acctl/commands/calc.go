package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ac-advisor/internal/capacity"
	"ac-advisor/internal/catalog"
	"ac-advisor/internal/dialogue"
	"ac-advisor/internal/recommend"
)

func calcCmd() *cobra.Command {
	var (
		area        float64
		coefficient int
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Recommend models for a room area, the same way the bot does",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Load(catalogPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, using empty catalog\n", err)
			}
			res, err := recommend.NewEngine(store, coefficient).Recommend(area)
			if errors.Is(err, recommend.ErrOutOfRange) {
				return fmt.Errorf("area must be greater than %v and at most %v m²", recommend.MinArea, recommend.MaxArea)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dialogue.FormatResult(res))
			return nil
		},
	}
	cmd.Flags().Float64Var(&area, "area", 0, "room area in m²")
	cmd.Flags().IntVar(&coefficient, "coefficient", capacity.DefaultCoefficient, "BTU per m²")
	_ = cmd.MarkFlagRequired("area")
	return cmd
}
