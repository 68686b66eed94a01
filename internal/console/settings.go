package console

import (
	"fmt"
	"os"

	"github.com/sells-group/analyst-cli/internal/config"
	"github.com/sells-group/analyst-cli/internal/model"
)

// Settings runs the configuration menu.
func (a *App) Settings() {
	a.out.Title("CONFIGURATION MANAGEMENT")

	a.out.Println("\nCurrent Configuration:")
	a.out.Field("Config File", a.cfg.File)
	a.out.Field("Firecrawl API Key", a.cfg.MaskedAPIKey())
	a.out.Field("Reports Directory", a.cfg.ReportsDir)
	a.out.Field("Default Save Format", a.cfg.DefaultSaveFormat)
	a.out.Field("Model Runtime", fmt.Sprintf("%s (%s)", a.cfg.Runtime.Provider, a.cfg.Runtime.Host))

	a.out.Println("\nConfiguration Options:")
	a.out.Println("1. Update Firecrawl API Key")
	a.out.Println("2. Change Reports Directory")
	a.out.Println("3. Set Default Save Format")
	a.out.Println("4. Reset Configuration")
	a.out.Println("5. View Full Configuration")
	a.out.Println("6. Back to Main Menu")

	choice, ok, err := askInt(a.in, a.out, "\nSelect option (1-6): ")
	if err != nil || !ok {
		return
	}
	switch choice {
	case 1:
		a.updateAPIKey()
	case 2:
		a.updateReportsDir()
	case 3:
		a.updateSaveFormat()
	case 4:
		a.resetConfig()
	case 5:
		a.viewConfig()
	case 6:
	default:
		a.out.Error("Please select a number between 1 and 6.")
	}
}

func (a *App) updateAPIKey() {
	a.out.Println("\nUpdate Firecrawl API Key")
	a.out.Println("Get your API key from: https://firecrawl.dev")
	key, ok := a.ask("\nEnter new API key: ")
	if !ok {
		a.out.Warn("No key entered, keeping current configuration.")
		return
	}
	if a.setting("api_key", key) {
		a.cfg.APIKey = key
		a.out.Success("API key updated! Restart the application to use the new key.")
	}
}

func (a *App) updateReportsDir() {
	a.out.Println("\nUpdate Reports Directory")
	a.out.Printf("Current directory: %s\n", a.cfg.ReportsDir)
	dir, ok := a.ask("\nEnter new reports directory name: ")
	if !ok {
		a.out.Warn("No directory entered, keeping current configuration.")
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.out.Error(fmt.Sprintf("Could not create %s: %v", dir, err))
		return
	}
	if a.setting("reports_dir", dir) {
		a.cfg.ReportsDir = dir
		a.out.Success("Reports directory updated to: " + dir)
	}
}

func (a *App) updateSaveFormat() {
	formats := model.AllFormats()
	a.out.Println("\nUpdate Default Save Format")
	a.out.Println("Available formats:")
	for i, f := range formats {
		a.out.Printf("%d. %s - %s\n", i+1, f, f.Label())
	}
	choice, ok, err := askInt(a.in, a.out, fmt.Sprintf("\nSelect format (1-%d): ", len(formats)))
	if err != nil || !ok || choice < 1 || choice > len(formats) {
		a.out.Warn("Invalid choice, keeping current configuration.")
		return
	}
	f := formats[choice-1]
	if a.setting("default_save_format", string(f)) {
		a.cfg.DefaultSaveFormat = string(f)
		a.out.Success(fmt.Sprintf("Default save format updated to: %s", f))
	}
}

func (a *App) resetConfig() {
	a.out.Println("\nReset Configuration")
	if !confirm(a.in, "This will reset all settings to defaults. Continue?") {
		a.out.Info("Reset cancelled.")
		return
	}
	if err := config.Reset(a.cfg.File); err != nil {
		a.out.Error(fmt.Sprintf("Error resetting config: %v", err))
		return
	}
	a.out.Success("Configuration reset. You'll be prompted for settings on next startup.")
}

func (a *App) viewConfig() {
	a.out.Println("\nFull Configuration")
	a.out.Rule("-")
	content, ok, err := config.ReadRaw(a.cfg.File)
	switch {
	case err != nil:
		a.out.Error(fmt.Sprintf("Error reading config file: %v", err))
	case !ok:
		a.out.Info("No config file found.")
	default:
		a.out.Println(content)
	}
	a.out.Rule("-")
	_, _ = a.in.Ask("Press Enter to continue...")
}

// setting persists key=value and reports failures.
func (a *App) setting(key, value string) bool {
	if err := config.Set(a.cfg.File, key, value); err != nil {
		a.out.Error(fmt.Sprintf("Error updating config: %v", err))
		return false
	}
	a.out.Success(fmt.Sprintf("Updated %s in %s", key, a.cfg.File))
	return true
}
