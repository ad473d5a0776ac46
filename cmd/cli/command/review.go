package command

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/service"
)

func newReviewCmd(opts *globalOptions) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Review commands",
		Long:  `Write and read anonymous movie reviews`,
	}
	reviewCmd.AddCommand(newReviewAddCmd(opts), newReviewListCmd(opts))
	return reviewCmd
}

func newReviewAddCmd(opts *globalOptions) *cobra.Command {
	var (
		rating    int
		text      string
		watchDate string
	)
	cmd := &cobra.Command{
		Use:     "add [movie-id]",
		Short:   "Review a movie (rating 1-5)",
		Example: `  moviehub review add 1 --rating 5 --text "dreams within dreams" --date 2024-03-15`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			in := models.AddReviewInput{
				MovieID:    movieID,
				Rating:     rating,
				ReviewText: flagString(cmd, "text", text),
				WatchDate:  flagString(cmd, "date", watchDate),
			}

			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				id, err := catalog.AddReview(ctx, in)
				if err != nil {
					return describeError(err)
				}
				printSuccess(cmd.OutOrStdout(), "Review %d added to movie %d", id, movieID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "rating from 1 to 5 (required)")
	cmd.Flags().StringVar(&text, "text", "", "review text")
	cmd.Flags().StringVar(&watchDate, "date", "", "watch date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func newReviewListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [movie-id]",
		Short: "List the reviews of a movie, most recently watched first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				reviews, err := catalog.ListReviews(ctx, movieID)
				if err != nil {
					return describeError(err)
				}

				out := cmd.OutOrStdout()
				if len(reviews) == 0 {
					fmt.Fprintln(out, "No reviews found.")
					return nil
				}
				for _, r := range reviews {
					printReview(out, r)
				}
				return nil
			})
		},
	}
}

func printReview(w io.Writer, r models.Review) {
	starColor.Fprint(w, stars(r.Rating))
	if r.WatchDate != nil {
		mutedColor.Fprintf(w, "  watched %s", *r.WatchDate)
	}
	fmt.Fprintf(w, "  #%d\n", r.ID)
	if text := deref(r.ReviewText); text != "" {
		fmt.Fprintf(w, "  %s\n", text)
	}
}
