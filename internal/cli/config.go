package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/piwi3910/BarCut/internal/model"
)

var (
	configSetDefault bool
	configResetAll   bool
)

// stockKeys maps config keys to the StockConfig field they set.
var stockKeys = map[string]func(*model.StockConfig, float64){
	"kerf":      func(c *model.StockConfig, v float64) { c.Kerf = v },
	"min":       func(c *model.StockConfig, v float64) { c.MinLength = v },
	"max":       func(c *model.StockConfig, v float64) { c.MaxLength = v },
	"step":      func(c *model.StockConfig, v float64) { c.StepSize = v },
	"max-waste": func(c *model.StockConfig, v float64) { c.MaxWasteThreshold = v },
}

// configKeys lists every key accepted by "config set".
func configKeys() []string {
	keys := []string{"price", "currency", "history-limit", "timeout"}
	for k := range stockKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// configCmd groups the settings commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(struct {
				Stock model.StockConfig `json:"stock"`
				App   model.AppConfig   `json:"app"`
			}{s.ws.Config, s.app})
		}

		c := s.ws.Config
		PrintSection("Stock")
		PrintLabelValue("kerf", mm(c.Kerf))
		PrintLabelValue("min", mm(c.MinLength))
		PrintLabelValue("max", mm(c.MaxLength))
		PrintLabelValue("step", mm(c.StepSize))
		PrintLabelValue("max-waste", mm(c.MaxWasteThreshold))

		PrintSection("Application")
		price := "not set"
		if s.app.PricePerMetre > 0 {
			price = fmt.Sprintf("%s %s/m", strconv.FormatFloat(s.app.PricePerMetre, 'f', -1, 64), s.app.Currency)
		}
		PrintLabelValue("price", price)
		PrintLabelValue("currency", s.app.Currency)
		PrintLabelValue("history-limit", strconv.Itoa(s.app.HistoryLimit))
		PrintLabelValue("timeout", fmt.Sprintf("%ds", s.app.TimeoutSeconds))
		PrintLabelValue("config file", s.configPath)
		PrintLabelValue("workspace", s.workspacePath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Stock keys (kerf, min, max, step, max-waste) change the
workspace; add --default to also make them the default for new workspaces.
Other keys: price, currency, history-limit, timeout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		key, raw := strings.ToLower(args[0]), args[1]

		if set, ok := stockKeys[key]; ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q for %s", raw, key)
			}
			set(&s.ws.Config, v)
			if err := validator.New().Struct(s.ws.Config); err != nil {
				return fmt.Errorf("invalid value %q for %s", raw, key)
			}
			if err := s.saveWorkspace(); err != nil {
				return err
			}
			if configSetDefault {
				defaults := s.app.StockConfig()
				set(&defaults, v)
				s.app.DefaultKerf = defaults.Kerf
				s.app.DefaultMinLength = defaults.MinLength
				s.app.DefaultMaxLength = defaults.MaxLength
				s.app.DefaultStepSize = defaults.StepSize
				s.app.DefaultMaxWasteThreshold = defaults.MaxWasteThreshold
				if err := s.saveConfig(); err != nil {
					return err
				}
			}
			PrintSuccess(fmt.Sprintf("%s set to %s", key, raw))
			return nil
		}

		switch key {
		case "price":
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid price %q", raw)
			}
			s.app.PricePerMetre = v
		case "currency":
			s.app.Currency = strings.ToUpper(raw)
		case "history-limit":
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				return fmt.Errorf("invalid history limit %q", raw)
			}
			s.app.HistoryLimit = v
		case "timeout":
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return fmt.Errorf("invalid timeout %q: use whole seconds, 0 for none", raw)
			}
			s.app.TimeoutSeconds = v
		default:
			return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(configKeys(), ", "))
		}
		if err := s.saveConfig(); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("%s set to %s", key, raw))
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default stock settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadState()
		if err != nil {
			return err
		}
		if configResetAll {
			s.app = model.DefaultAppConfig()
			if err := s.saveConfig(); err != nil {
				return err
			}
		}
		s.ws.Config = s.app.StockConfig()
		if err := s.saveWorkspace(); err != nil {
			return err
		}
		PrintSuccess("Settings reset")
		return nil
	},
}

func init() {
	configSetCmd.Flags().BoolVar(&configSetDefault, "default", false, "Also store a stock value as the default for new workspaces")
	configResetCmd.Flags().BoolVar(&configResetAll, "all", false, "Also reset the application config")
	configCmd.AddCommand(configShowCmd, configSetCmd, configResetCmd)
}
