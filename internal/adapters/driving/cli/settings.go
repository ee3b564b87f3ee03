package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure brand styling, directories, and the narrative provider.

Settings are stored in ~/.healthdoc/config.toml unless --config is given.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsBrandCmd = &cobra.Command{
	Use:   "brand",
	Short: "Set default brand styling",
	Long: `Set the brand name, colours and band scale used when a render does not
override them. Only the flags you pass are changed.`,
	RunE: runSettingsBrand,
}

var settingsDirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Set recipe, output and history directories",
	RunE:  runSettingsDirs,
}

var settingsNarrativeCmd = &cobra.Command{
	Use:   "narrative",
	Short: "Configure narrative provider",
	Long: `Configure the provider used by --narrate to write executive and chapter
summaries. Without a provider, narratives fall back to fixed sentences.`,
	RunE: runSettingsNarrative,
}

var (
	brandFlags struct {
		name, primary, accent, bandScale, customCSS string
	}
	dirFlags struct {
		recipes, output, history string
	}
)

func init() {
	settingsBrandCmd.Flags().StringVar(&brandFlags.name, "name", "", "Brand name")
	settingsBrandCmd.Flags().StringVar(&brandFlags.primary, "primary", "", "Primary colour (#rgb or #rrggbb)")
	settingsBrandCmd.Flags().StringVar(&brandFlags.accent, "accent", "", "Accent colour (#rgb or #rrggbb)")
	settingsBrandCmd.Flags().StringVar(&brandFlags.bandScale, "band-scale", "", "Band scale: five or four")
	settingsBrandCmd.Flags().StringVar(&brandFlags.customCSS, "css", "", "Extra CSS appended to every document")

	settingsDirsCmd.Flags().StringVar(&dirFlags.recipes, "recipes", "", "Directory of recipe files")
	settingsDirsCmd.Flags().StringVar(&dirFlags.output, "output", "", "Root directory for generated reports")
	settingsDirsCmd.Flags().StringVar(&dirFlags.history, "history", "", "Directory for the history database")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBrandCmd)
	settingsCmd.AddCommand(settingsDirsCmd)
	settingsCmd.AddCommand(settingsNarrativeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	p.Title("Current Settings")
	cmd.Println()

	cmd.Println("[Brand]")
	p.Field("Name", settings.Style.BrandName)
	p.Field("Primary", settings.Style.PrimaryColor)
	p.Field("Accent", settings.Style.AccentColor)
	p.Field("Bands", settings.Style.BandScale.String())
	if settings.Style.CustomCSS != "" {
		p.Field("CSS", fmt.Sprintf("%d bytes", len(settings.Style.CustomCSS)))
	}
	cmd.Println()

	cmd.Println("[Directories]")
	p.Field("Recipes", orDefault(settings.RecipesDir, "(built-in only)"))
	p.Field("Output", orDefault(settings.OutputDir, "./reports"))
	p.Field("History", orDefault(settings.HistoryDir, "~/.healthdoc/data"))
	cmd.Println()

	cmd.Println("[Narrative]")
	n := settings.Narrative
	if n.Provider == "" {
		p.Field("Provider", "(none, fixed sentences)")
	} else {
		p.Field("Provider", n.Provider.Description())
		p.Field("Model", n.Model)
		if n.Provider.IsLocal() {
			p.Field("Base URL", n.BaseURL)
		}
		if n.Provider.RequiresAPIKey() {
			if n.APIKey != "" {
				p.Field("API Key", maskAPIKey(n.APIKey))
			} else {
				p.Field("API Key", "(not set)")
			}
		}
		rate := n.RatePerMinute
		if rate == 0 {
			rate = domain.DefaultNarrativeRate
		}
		p.Field("Rate", fmt.Sprintf("%d/min", rate))
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		p.Warn("Warning: %v", err)
		return nil
	}
	if n.Provider != "" && !n.IsConfigured() {
		p.Warn("Warning: narrative provider is not fully configured")
		cmd.Println("Run 'healthdoc settings narrative' to fix.")
		return nil
	}
	p.OK("Configuration is valid.")
	return nil
}

func runSettingsBrand(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	changed := false
	set := func(flag string, dst *string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = value
			changed = true
		}
	}
	set("name", &settings.Style.BrandName, brandFlags.name)
	set("primary", &settings.Style.PrimaryColor, brandFlags.primary)
	set("accent", &settings.Style.AccentColor, brandFlags.accent)
	set("css", &settings.Style.CustomCSS, brandFlags.customCSS)
	if cmd.Flags().Changed("band-scale") {
		settings.Style.BandScale = domain.BandScale(brandFlags.bandScale)
		changed = true
	}

	if !changed {
		return errors.New("nothing to change: pass at least one flag")
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	newPrinter(cmd.OutOrStdout()).OK("Brand settings saved.")
	return nil
}

func runSettingsDirs(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	changed := false
	for flag, dst := range map[string]*string{
		"recipes": &settings.RecipesDir,
		"output":  &settings.OutputDir,
		"history": &settings.HistoryDir,
	} {
		if cmd.Flags().Changed(flag) {
			value, _ := cmd.Flags().GetString(flag) //nolint:errcheck // flag is registered above
			*dst = value
			changed = true
		}
	}
	if !changed {
		return errors.New("nothing to change: pass at least one flag")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	newPrinter(cmd.OutOrStdout()).OK("Directory settings saved.")
	return nil
}

func runSettingsNarrative(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Narrative Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultNarrativeModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetNarrativeProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure narrative provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateNarrativeConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("narrative configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Narrative provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
