package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/dataglance/internal/config"
	"github.com/KaramelBytes/dataglance/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataglance configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "session_secret: %s\n", mask(cfg.SessionSecret))
		fmt.Fprintf(out, "session_ttl_minutes: %d\n", cfg.SessionTTLMinutes)
		fmt.Fprintf(out, "max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Fprintf(out, "preview_rows: %d\n", cfg.PreviewRows)
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if cfg.SeqURL != "" {
			fmt.Fprintf(out, "seq_url: %s\n", cfg.SeqURL)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "listen_addr":
			cfg.ListenAddr = val
		case "session_secret":
			cfg.SessionSecret = val
		case "session_ttl_minutes":
			i, err := nonNegativeInt(key, val)
			if err != nil {
				return err
			}
			cfg.SessionTTLMinutes = i
		case "max_upload_mb":
			i, err := nonNegativeInt(key, val)
			if err != nil {
				return err
			}
			cfg.MaxUploadMB = i
		case "preview_rows":
			i, err := nonNegativeInt(key, val)
			if err != nil {
				return err
			}
			cfg.PreviewRows = i
		case "chart_width":
			i, err := nonNegativeInt(key, val)
			if err != nil {
				return err
			}
			cfg.ChartWidth = i
		case "chart_height":
			i, err := nonNegativeInt(key, val)
			if err != nil {
				return err
			}
			cfg.ChartHeight = i
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = strings.ToLower(val)
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "seq_url":
			cfg.SeqURL = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func nonNegativeInt(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid non-negative int for %s: %v", key, val)
	}
	return i, nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
