package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go-gin-seat-map/config"
	"go-gin-seat-map/internal/database"
	"go-gin-seat-map/internal/generator"
	"go-gin-seat-map/internal/model"
	"go-gin-seat-map/internal/pricing"
	"go-gin-seat-map/internal/repository"
	apperrors "go-gin-seat-map/pkg/app_errors"
	"go-gin-seat-map/pkg/logger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type layoutFlags struct {
	rows     int
	cols     int
	sections int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.rows, "rows", generator.DefaultRows, "rows per section")
	cmd.Flags().IntVar(&f.cols, "cols", generator.DefaultCols, "seats per row")
	cmd.Flags().IntVar(&f.sections, "sections", 1, "number of sections")
}

func (f *layoutFlags) venue() model.Venue {
	return generator.Generate(generator.Options{Rows: f.rows, Cols: f.cols, Sections: f.sections})
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "venuegen",
		Short:         "Seat map venue generator",
		Long:          `Generate venue layouts, seed them into Postgres and print row summaries.`,
		SilenceUsage:  true,
	}
	root.AddCommand(newGenerateCmd(), newSeedCmd(), newPrintCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of venuegen",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "venuegen v0.1")
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var layout layoutFlags
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a generated venue as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeVenueJSON(w, layout.venue())
		},
	}
	layout.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var layout layoutFlags
	var replace bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a generated venue in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := config.LoadConfig()
			logger.SetLevel(cfg.App.LogLevel)

			pool, err := database.InitDatabase(ctx, &cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := repository.NewVenueRepository(pool)
			venue := layout.venue()
			venue.VenueID = cfg.App.VenueID
			return seedVenue(ctx, repo, venue, replace)
		},
	}
	layout.register(cmd)
	cmd.Flags().BoolVar(&replace, "replace", false, "delete an existing venue with the same id first")
	return cmd
}

func seedVenue(ctx context.Context, repo repository.VenueRepository, venue model.Venue, replace bool) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if replace {
		if err := repo.Delete(ctx, venue.VenueID); err != nil && !errors.Is(err, apperrors.ErrVenueNotFound) {
			return err
		}
	}
	if err := repo.Create(ctx, venue); err != nil {
		return err
	}
	logger.WithComponent("cmd").Info("venue seeded", zap.String("venue_id", venue.VenueID), zap.Int("seats", venue.SeatCount()))
	return nil
}

func newPrintCmd() *cobra.Command {
	var layout layoutFlags
	var in string
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print a row summary table",
		Long:  `Print one line per row with its tier, price and seat counts. Reads --in when given, otherwise generates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			venue := layout.venue()
			if in != "" {
				loaded, err := readVenueJSON(in)
				if err != nil {
					return err
				}
				venue = loaded
			}
			renderRowTable(cmd.OutOrStdout(), venue)
			return nil
		},
	}
	layout.register(cmd)
	cmd.Flags().StringVar(&in, "in", "", "venue JSON file")
	return cmd
}

func writeVenueJSON(w io.Writer, venue model.Venue) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(venue)
}

func readVenueJSON(path string) (model.Venue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Venue{}, err
	}
	var venue model.Venue
	if err := json.Unmarshal(raw, &venue); err != nil {
		return model.Venue{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidVenue, err)
	}
	if err := venue.Validate(); err != nil {
		return model.Venue{}, err
	}
	return venue, nil
}

// renderRowTable prints rows in stored order. A row whose seats span
// several tiers shows the tier of its first seat.
func renderRowTable(w io.Writer, venue model.Venue) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s (%s)", venue.Name, venue.VenueID))
	t.AppendHeader(table.Row{"Section", "Row", "Tier", "Price", "Seats", "Available"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})

	total, available := 0, 0
	for _, section := range venue.Sections {
		for _, row := range section.Rows {
			free := 0
			for _, seat := range row.Seats {
				if seat.IsAvailable() {
					free++
				}
			}
			tier := 0
			if len(row.Seats) > 0 {
				tier = row.Seats[0].PriceTier
			}
			t.AppendRow(table.Row{
				section.Label,
				row.Index,
				tier,
				pricing.SeatPrice(tier).StringFixed(2),
				len(row.Seats),
				free,
			}, rowConfigAutoMerge)
			total += len(row.Seats)
			available += free
		}
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{"", "", "", "Total", strconv.Itoa(total), strconv.Itoa(available)})
	t.Render()
}
