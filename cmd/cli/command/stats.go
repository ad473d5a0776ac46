package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/microservices/http-api/service"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var genres int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show site statistics",
		Long:  `Show the rating histogram, the most reviewed genres and reviews per watch year`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				stats, err := catalog.Stats(ctx, genres)
				if err != nil {
					return describeError(err)
				}
				view := dto.FromSiteStats(stats)
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "Movies: %d   Reviews: %d\n\n", view.TotalMovies, view.TotalReviews)

				titleColor.Fprintln(out, "Rating distribution")
				var maxCount int64
				for _, b := range view.RatingHistogram {
					maxCount = max(maxCount, b.Count)
				}
				for _, b := range view.RatingHistogram {
					fmt.Fprintf(out, "  %s %4d %s\n", stars(b.Rating), b.Count, bar(b.Count, maxCount, 30))
				}

				fmt.Fprintln(out)
				titleColor.Fprintln(out, "Top genres")
				if len(view.TopGenres) == 0 {
					mutedColor.Fprintln(out, "  no reviewed genres")
				}
				for i, g := range view.TopGenres {
					fmt.Fprintf(out, "  %d. %-16s %4d  %5.1f%%\n", i+1, g.Genre, g.ReviewCount, g.Share)
				}

				fmt.Fprintln(out)
				titleColor.Fprintln(out, "Reviews per watch year")
				if len(view.WatchYears) == 0 {
					mutedColor.Fprintln(out, "  no dated reviews")
				}
				var maxYear int64
				for _, y := range view.WatchYears {
					maxYear = max(maxYear, y.Count)
				}
				for _, y := range view.WatchYears {
					fmt.Fprintf(out, "  %s %4d %s\n", y.Year, y.Count, bar(y.Count, maxYear, 30))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&genres, "genres", 5, "number of genres to rank")
	return cmd
}
