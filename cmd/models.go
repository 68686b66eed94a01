package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/analyst-cli/internal/catalog"
	"github.com/sells-group/analyst-cli/internal/model"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List working models by category with task recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("models"); err != nil {
			return err
		}
		ctx := cmd.Context()

		rt, err := connectRuntime(ctx, cfg)
		if err != nil {
			return err
		}
		cat := refreshCatalog(ctx, cfg, rt)

		w := cmd.OutOrStdout()
		if modelsJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(newModelsView(cat))
		}

		fmt.Fprintf(w, "Runtime: %s at %s\n", rt.Provider(), rt.Endpoint())
		if cat.Warning != "" {
			fmt.Fprintf(w, "Warning: %s\n", cat.Warning)
		}
		fmt.Fprintf(w, "Working models: %d of %d\n", len(cat.Working()), len(cat.Descriptors()))
		if len(cat.Working()) == 0 {
			fmt.Fprintf(w, "Try: %s\n", catalog.PullHint)
			return nil
		}
		for _, g := range cat.Categories() {
			fmt.Fprintf(w, "\n%s:\n", g.Category.Description())
			for _, name := range g.Models {
				fmt.Fprintf(w, "  • %s\n", cat.Describe(name))
			}
		}
		fmt.Fprintln(w, "\nRecommended:")
		for _, task := range model.AllTasks() {
			if name, ok := cat.Recommendation(task); ok {
				fmt.Fprintf(w, "  %-14s %s\n", string(task)+":", name)
			}
		}
		return nil
	},
}

type modelGroupView struct {
	Category    model.Category `json:"category"`
	Description string         `json:"description"`
	Models      []string       `json:"models"`
}

type modelsView struct {
	Working         []string                  `json:"working"`
	Categories      []modelGroupView          `json:"categories"`
	Recommendations map[model.TaskKind]string `json:"recommendations"`
	Warning         string                    `json:"warning,omitempty"`
}

func newModelsView(cat *catalog.Catalog) modelsView {
	v := modelsView{
		Working:         cat.Working(),
		Categories:      []modelGroupView{},
		Recommendations: cat.Recommendations(),
		Warning:         cat.Warning,
	}
	if v.Working == nil {
		v.Working = []string{}
	}
	for _, g := range cat.Categories() {
		v.Categories = append(v.Categories, modelGroupView{
			Category:    g.Category,
			Description: g.Category.Description(),
			Models:      g.Models,
		})
	}
	return v
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(modelsCmd)
}
