package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unitbook/unitbook/pkg/errors"
	"github.com/unitbook/unitbook/pkg/units"
)

// distinctFields maps the CLI argument onto store field names. These are the
// fields the filter UI builds dropdown option lists from.
var distinctFields = map[string]string{
	"building":      units.FieldBuildingName,
	"property-type": units.FieldPropertyType,
	"sub-type":      units.FieldSubType,
	"beds":          units.FieldBeds,
	"city":          units.FieldCity,
	"community":     units.FieldCommunity,
	"sub-community": units.FieldSubCommunity,
}

var distinctCmd = &cobra.Command{
	Use:   "distinct <field>",
	Short: "Enumerate the distinct values of a record field",
	Long: "Distinct lists every distinct non-empty value of a field, sorted,\n" +
		"as consumed by filter dropdowns. Fields: " + strings.Join(distinctFieldNames(), ", ") + ".",
	Args: cobra.ExactArgs(1),
	RunE: runDistinct,
}

func runDistinct(cmd *cobra.Command, args []string) error {
	field, ok := distinctFields[args[0]]
	if !ok {
		return errors.NewValidationError("field", args[0],
			"must be one of: "+strings.Join(distinctFieldNames(), ", "))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, closer, err := connectStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closer()

	values, err := st.Distinct(cmd.Context(), field)
	if err != nil {
		return err
	}

	for _, v := range values {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

func distinctFieldNames() []string {
	names := make([]string, 0, len(distinctFields))
	for name := range distinctFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
