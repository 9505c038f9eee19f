package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/hdrscan/internal/catalog"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [category]",
	Short: "List the header rules used for scoring",
	Long: `List the header catalog: the built-in rules, or the rules from --catalog
when a custom YAML catalog is configured.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: categoryNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		jsonOut, _ := cmd.Flags().GetBool("json")

		cat, err := loadCatalog(appCtx.Config.CatalogFile)
		if err != nil {
			return err
		}

		categories := catalog.AllCategories
		if len(args) == 1 {
			c, err := catalog.ParseCategory(args[0])
			if err != nil {
				return err
			}
			categories = []catalog.Category{c}
		}

		if jsonOut {
			out := make(map[catalog.Category][]catalog.Rule, len(categories))
			for _, c := range categories {
				out[c] = cat.Rules(c)
			}
			return printJSON(cmd.OutOrStdout(), out)
		}

		w := cmd.OutOrStdout()
		for i, c := range categories {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%d rules)\n", colorBold(c.Title()), cat.Len(c))
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "  HEADER\tIMPORTANCE\tDESCRIPTION")
			for _, r := range cat.Rules(c) {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Name, r.Importance, truncateValue(r.Description, 60))
			}
			_ = tw.Flush()
		}
		return nil
	},
}

func loadCatalog(path string) (catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func categoryNames() []string {
	names := make([]string, 0, len(catalog.AllCategories))
	for _, c := range catalog.AllCategories {
		names = append(names, string(c))
	}
	return names
}

func init() {
	rulesCmd.Flags().Bool("json", false, "print rules as JSON")
}
