package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unitbook/unitbook/pkg/store"
	"github.com/unitbook/unitbook/pkg/units"
)

var listQuery struct {
	search       string
	propertyType string
	subType      string
	city         string
	beds         float64
	minArea      float64
	maxArea      float64
	minPrice     float64
	maxPrice     float64
	sortBy       string
	order        string
	page         int
	perPage      int
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Query unit records",
	Long: `List pages through the unit records the importer maintains, using the
same lookups the filter UI performs: substring search over buildings,
communities, owners and contacts, exact filters, and numeric ranges.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	flags := listCmd.Flags()
	flags.StringVar(&listQuery.search, "search", "", "substring match over building, community, owner names and contacts")
	flags.StringVar(&listQuery.propertyType, "type", "", "exact property type")
	flags.StringVar(&listQuery.subType, "sub-type", "", "exact sub type")
	flags.StringVar(&listQuery.city, "city", "", "exact city")
	flags.Float64Var(&listQuery.beds, "beds", -1, "exact bed count")
	flags.Float64Var(&listQuery.minArea, "min-area", -1, "minimum area in sqft")
	flags.Float64Var(&listQuery.maxArea, "max-area", -1, "maximum area in sqft")
	flags.Float64Var(&listQuery.minPrice, "min-price", -1, "minimum price")
	flags.Float64Var(&listQuery.maxPrice, "max-price", -1, "maximum price")
	flags.StringVar(&listQuery.sortBy, "sort", units.FieldAreaSqft, "sort field: area_sqft, price or building_name")
	flags.StringVar(&listQuery.order, "order", store.SortDesc, "sort order: asc or desc")
	flags.IntVar(&listQuery.page, "page", 1, "page number")
	flags.IntVar(&listQuery.perPage, "per-page", store.DefaultPerPage, "results per page")
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, closer, err := connectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	query := store.Query{
		Search:       listQuery.search,
		PropertyType: listQuery.propertyType,
		SubType:      listQuery.subType,
		City:         listQuery.city,
		Beds:         optional(listQuery.beds),
		MinArea:      optional(listQuery.minArea),
		MaxArea:      optional(listQuery.maxArea),
		MinPrice:     optional(listQuery.minPrice),
		MaxPrice:     optional(listQuery.maxPrice),
		SortBy:       listQuery.sortBy,
		Order:        listQuery.order,
		Page:         listQuery.page,
		PerPage:      listQuery.perPage,
	}

	results, total, err := st.Find(ctx, query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BUILDING\tUNIT\tTYPE\tBEDS\tAREA\tPRICE\tOWNERS")
	for _, u := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			u.BuildingName, u.UnitNumber, u.PropertyType,
			num(u.Beds), num(u.AreaSqft), num(u.Price), len(u.Owners))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	pages := (total + int64(query.Normalize().PerPage) - 1) / int64(query.Normalize().PerPage)
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(out, "\n%d records, page %d of %d\n", total, query.Normalize().Page, pages)
	return nil
}

// optional converts the -1 flag sentinel into an unset filter.
func optional(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}

func num(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
