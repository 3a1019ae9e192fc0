package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quill-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/quill-cli/internal/core/domain"
)

// Setting keys written by the wizard and set-key.
const (
	settingLLMProvider = "llm.provider"
	settingLLMModel    = "llm.model"
	settingLLMAPIKey   = "llm.api_key" //nolint:gosec // G101: config key name, not a credential.
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider, per-stage models, pacing, storage
and server options. Settings live in ~/.quill/config.toml; environment
variables and .env override them.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting",
	Long: `Set one setting by dot-notation key.

Examples:
  quill settings set llm.provider anthropic
  quill settings set models.generate gpt-4.1
  quill settings set pipeline.call_interval 2s

Run 'quill settings keys' to list the keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Enter and validate the API key of the current provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSetKey,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose the AI provider, model and API key.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	model := settings.LLM.Model
	if model == "" {
		model = ai.DefaultLLMModel(settings.LLM.Provider) + " (provider default)"
	}
	cmd.Printf("  Model: %s\n", model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set, or export %s)\n", settings.LLM.Provider.APIKeyEnv())
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Stage model overrides
	cmd.Println("[Models]")
	for _, stage := range []string{
		domain.StageExpression, domain.StageParameter, domain.StageTemplate,
		domain.StageCategorize, domain.StageGenerate,
	} {
		m := settings.ModelFor(stage)
		if m == "" {
			m = "(default)"
		}
		cmd.Printf("  %s: %s\n", stage, m)
	}
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Call interval: %s\n", settings.Pipeline.CallInterval)
	cmd.Printf("  Template interval: %s\n", settings.Pipeline.TemplateInterval)
	cmd.Printf("  File pattern: %s\n", settings.Pipeline.FilePattern)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	if !settings.LLM.IsConfigured() {
		cmd.Println("Run 'quill settings wizard' to configure an AI provider.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	value := args[1]
	if args[0] == settingLLMAPIKey {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", args[0], value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("%s does not use an API key.\n", settings.LLM.Provider.Description())
		return nil
	}

	cmd.Printf("Enter %s API key: ", settings.LLM.Provider.Description())
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}

	return saveValidatedKey(cmd, settings.LLM, apiKey)
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Quill Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Select AI Provider")
	cmd.Println("--------------------------")
	providers := domain.AIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	if err := settingsService.Set(settingLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	cmd.Printf("Set provider to: %s\n\n", provider.Description())

	cmd.Println("Step 2: Model")
	cmd.Println("-------------")
	defaultModel := ai.DefaultLLMModel(provider)
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}
	if err := settingsService.Set(settingLLMModel, model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}
	cmd.Println()

	if !provider.RequiresAPIKey() {
		cmd.Println("Step 3: API Key (skipped)")
		cmd.Println("-------------------------")
		cmd.Println("Not required for local models.")
		cmd.Println()
		cmd.Println("Setup complete.")
		return nil
	}

	cmd.Println("Step 3: API Key")
	cmd.Println("---------------")
	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}

	llm := domain.LLMSettings{Provider: provider, Model: model}
	if err := saveValidatedKey(cmd, llm, apiKey); err != nil {
		return err
	}
	cmd.Println("Setup complete.")
	return nil
}

// saveValidatedKey pings the provider with apiKey and saves the key only if it works.
func saveValidatedKey(cmd *cobra.Command, llm domain.LLMSettings, apiKey string) error {
	llm.APIKey = apiKey
	if validateLLM != nil {
		cmd.Print("Validating configuration... ")
		if err := validateLLM(cmd.Context(), &llm); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	if err := settingsService.Set(settingLLMAPIKey, apiKey); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	cmd.Printf("API key saved for %s: %s\n", llm.Provider.Description(), maskAPIKey(apiKey))
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

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
