package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/service"
)

func newMovieCmd(opts *globalOptions) *cobra.Command {
	movieCmd := &cobra.Command{
		Use:   "movie",
		Short: "Movie management commands",
		Long:  `Manage movies: add, list, show and delete`,
	}
	movieCmd.AddCommand(
		newMovieAddCmd(opts),
		newMovieListCmd(opts),
		newMovieShowCmd(opts),
		newMovieDeleteCmd(opts),
	)
	return movieCmd
}

func newMovieAddCmd(opts *globalOptions) *cobra.Command {
	var (
		title, director, genre, poster, trailer string
		year                                    int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie to the catalog",
		Example: `  moviehub movie add --title "Inception" --director "Christopher Nolan" \
    --year 2010 --genre "SF, 액션"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.CreateMovieInput{
				Title:      title,
				Director:   flagString(cmd, "director", director),
				Genre:      flagString(cmd, "genre", genre),
				PosterURL:  flagString(cmd, "poster", poster),
				TrailerURL: flagString(cmd, "trailer", trailer),
			}
			if cmd.Flags().Changed("year") {
				in.ReleaseYear = &year
			}

			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				id, err := catalog.AddMovie(ctx, in)
				if err != nil {
					return describeError(err)
				}
				printSuccess(cmd.OutOrStdout(), "Movie added (ID %d)", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "movie title (required)")
	cmd.Flags().StringVar(&director, "director", "", "director")
	cmd.Flags().IntVar(&year, "year", 0, "release year")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", `comma separated genres, e.g. "SF, Drama"`)
	cmd.Flags().StringVar(&poster, "poster", "", "poster image URL")
	cmd.Flags().StringVar(&trailer, "trailer", "", "trailer URL")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newMovieListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all movies with their average rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				movies, err := catalog.ListMovies(ctx)
				if err != nil {
					return describeError(err)
				}

				out := cmd.OutOrStdout()
				if len(movies) == 0 {
					fmt.Fprintln(out, "No movies found.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tGENRES\tAVG\tREVIEWS")
				for _, m := range movies {
					year := ""
					if m.ReleaseYear != nil {
						year = strconv.Itoa(*m.ReleaseYear)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
						m.ID, m.Title, year, strings.Join(m.Genres(), ", "),
						averageText(m.AverageRating), m.ReviewCount)
				}
				return tw.Flush()
			})
		},
	}
}

func newMovieShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [movie-id]",
		Short: "Show a movie with all its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				detail, err := catalog.MovieDetail(ctx, id)
				if err != nil {
					return describeError(err)
				}

				out := cmd.OutOrStdout()
				m := detail.Movie
				titleColor.Fprintf(out, "%s\n", m.Title)
				if m.Director != nil {
					fmt.Fprintf(out, "Director: %s\n", *m.Director)
				}
				if m.ReleaseYear != nil {
					fmt.Fprintf(out, "Released: %d\n", *m.ReleaseYear)
				}
				if len(detail.Genres) > 0 {
					fmt.Fprintf(out, "Genres:   %s\n", strings.Join(detail.Genres, " · "))
				}
				if m.TrailerURL != nil {
					fmt.Fprintf(out, "Trailer:  %s\n", *m.TrailerURL)
				}
				fmt.Fprintf(out, "Average:  %s (%d reviews)\n", averageText(detail.Summary.AverageRating), detail.Summary.ReviewCount)
				fmt.Fprintln(out, strings.Repeat("-", 50))

				if len(detail.Reviews) == 0 {
					mutedColor.Fprintln(out, "No reviews yet.")
					return nil
				}
				for _, r := range detail.Reviews {
					printReview(out, r)
				}
				return nil
			})
		},
	}
}

func newMovieDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [movie-id]",
		Short: "Delete a movie and all its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return opts.withCatalog(cmd, func(ctx context.Context, catalog service.CatalogService) error {
				if err := catalog.DeleteMovie(ctx, id); err != nil {
					return describeError(err)
				}
				printSuccess(cmd.OutOrStdout(), "Movie %d deleted", id)
				return nil
			})
		},
	}
}

func parseMovieID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie ID: %q", arg)
	}
	return id, nil
}

// flagString returns nil unless the flag was given on the command line.
func flagString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
