package console

import (
	"fmt"
	"strconv"

	"github.com/sells-group/analyst-cli/internal/catalog"
	"github.com/sells-group/analyst-cli/internal/model"
)

// ShowModels prints the working models grouped by category.
func (a *App) ShowModels() {
	cat := a.svc.Catalog()
	a.out.Printf("\nYour Available Models (%d total):\n", len(cat.Working()))
	a.out.Rule("=")

	if cat.Warning != "" {
		a.out.Warn(cat.Warning)
	}
	if len(cat.Working()) == 0 {
		a.out.Error("No working models found")
		a.out.Hint("Try: " + catalog.PullHint)
		return
	}

	for _, g := range cat.Categories() {
		a.out.Printf("\n%s:\n", g.Category.Description())
		for _, name := range g.Models {
			a.out.Printf("  • %s\n", cat.Describe(name))
		}
	}

	if recs := cat.Recommendations(); len(recs) > 0 {
		a.out.Println("\nRecommended:")
		for _, task := range model.AllTasks() {
			if name, ok := recs[task]; ok {
				a.out.Printf("  %-14s %s\n", string(task)+":", name)
			}
		}
	}
}

// selectModel lets the user pick one of the category's candidates. A single
// candidate is picked without asking. It returns "" when cancelled.
func (a *App) selectModel(category model.Category) string {
	cat := a.svc.Catalog()
	candidates := cat.Candidates(category)
	switch len(candidates) {
	case 0:
		return ""
	case 1:
		a.out.Info("Using your only available model: " + candidates[0])
		return candidates[0]
	}

	a.out.Println("\nSelect Model:")
	for i, name := range candidates {
		hint := ""
		if c, ok := cat.CategoryOf(name); ok {
			hint = " - " + string(c)
		}
		a.out.Printf("%d. %s%s%s\n", i+1, name, cat.SizeLabel(name), hint)
	}

	for {
		answer, err := a.in.Ask(fmt.Sprintf("\nSelect model (1-%d): ", len(candidates)))
		if err != nil {
			return ""
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			a.out.Warn("Invalid input or cancelled")
			return ""
		}
		if n >= 1 && n <= len(candidates) {
			a.out.Success("Selected: " + candidates[n-1])
			return candidates[n-1]
		}
		a.out.Warn(fmt.Sprintf("Please enter a number between 1 and %d", len(candidates)))
	}
}
