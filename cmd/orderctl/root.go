package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/orderlist/internal/config"
	"github.com/JonMunkholm/orderlist/internal/core"
)

type listOptions struct {
	count    int
	search   string
	status   string
	sort     string
	dir      string
	page     int
	pageSize int
	seed     uint64
	format   string
	jsonOut  bool
}

// pageOutput is the JSON document printed with --json.
type pageOutput struct {
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
	TotalRecords int              `json:"totalRecords"`
	DatasetSize  int              `json:"datasetSize"`
	Params       core.QueryParams `json:"params"`
	Records      []core.Record    `json:"records"`
}

func newRootCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "orderctl",
		Short: "Query a generated order list",
		Long: "Generate an order list, filter and sort it the way the web page does, " +
			"and print one page as a table, JSON or CSV.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine.
			_ = godotenv.Load()
			return applyConfigDefaults(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.count, "count", "n", core.DefaultSeedCount, "Number of generated orders")
	f.StringVarP(&opts.search, "search", "q", "", "Case-insensitive search text")
	f.StringVarP(&opts.status, "status", "s", core.StatusFilterAll, "Status filter: all, pending, in-progress, complete, approved, rejected")
	f.StringVar(&opts.sort, "sort", core.DefaultSort.Column, "Sort column")
	f.StringVar(&opts.dir, "dir", string(core.DefaultSort.Dir), "Sort direction: asc or desc")
	f.IntVarP(&opts.page, "page", "p", 1, "Page number (clamped to the available pages)")
	f.IntVar(&opts.pageSize, "page-size", core.DefaultPageSize, "Orders per page")
	f.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks a random one)")
	f.StringVarP(&opts.format, "format", "f", "table", "Output format: table, json or csv")
	f.BoolVar(&opts.jsonOut, "json", false, "Shorthand for --format json")

	cmd.AddCommand(newColumnsCmd())
	return cmd
}

// applyConfigDefaults takes list sizes from LIST_* settings unless the flags
// were given explicitly.
func applyConfigDefaults(cmd *cobra.Command, opts *listOptions) error {
	cfg, err := config.LoadFrom(os.Getenv)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("count") {
		opts.count = cfg.List.SeedCount
	}
	if !cmd.Flags().Changed("page-size") {
		opts.pageSize = cfg.List.PageSize
	}
	return nil
}

func runList(out io.Writer, opts *listOptions) error {
	if opts.jsonOut {
		opts.format = "json"
	}
	if !lo.Contains([]string{"table", "json", "csv"}, opts.format) {
		return errors.Newf("invalid format %q: use table, json or csv", opts.format)
	}
	if opts.count < 0 {
		return errors.Newf("invalid count %d: must not be negative", opts.count)
	}
	if opts.pageSize <= 0 {
		return errors.Newf("invalid page size %d: must be positive", opts.pageSize)
	}
	if _, ok := core.Column(opts.sort); !ok {
		return errors.WithHint(
			errors.Newf("unknown sort column %q", opts.sort),
			"run 'orderctl columns' to list the sortable columns",
		)
	}

	var rng *rand.Rand
	if opts.seed != 0 {
		rng = rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	}
	dataset := core.NewGenerator(rng, time.Now).Generate(opts.count)

	params := core.QueryParams{
		Search: opts.search,
		Status: opts.status,
		Sort:   core.SortSpec{Column: opts.sort, Dir: core.ParseSortDirection(opts.dir)},
	}
	view := core.Query(dataset, params)
	totalPages := core.TotalPages(len(view), opts.pageSize)
	page := core.ClampPage(opts.page, totalPages)

	result := pageOutput{
		Page:         page,
		TotalPages:   totalPages,
		TotalRecords: len(view),
		DatasetSize:  len(dataset),
		Params:       params,
		Records:      core.Paginate(view, page, opts.pageSize),
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "csv":
		return writeCSV(out, result.Records)
	default:
		return writeTable(out, result)
	}
}

var tableHeader = []string{"ID", "CUSTOMER", "PROJECT", "ADDRESS", "DATE", "STATUS"}

func tableRow(r core.Record) []string {
	return []string{r.ID, r.CustomerName, r.Project, r.Address, r.DisplayDate, r.Status.Label()}
}

func writeTable(out io.Writer, result pageOutput) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}

	writeLine(tableHeader)
	for _, r := range result.Records {
		writeLine(tableRow(r))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "write table")
	}
	_, err := fmt.Fprintf(out, "\nPage %d of %d, %d of %d orders\n",
		result.Page, result.TotalPages, result.TotalRecords, result.DatasetSize)
	return err
}

// writeCSV writes records with a header row, email and timestamp included.
func writeCSV(out io.Writer, records []core.Record) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "customerName", "email", "project", "address", "displayDate", "status", "createdAt"}); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, r := range records {
		row := []string{
			r.ID, r.CustomerName, r.Email, r.Project, r.Address,
			r.DisplayDate, string(r.Status), r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write csv row %s", r.ID)
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush csv")
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the sortable columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tALIASES")
			for _, def := range core.Columns() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Key, def.Label, strings.Join(def.Aliases, ", "))
			}
			return tw.Flush()
		},
	}
}
