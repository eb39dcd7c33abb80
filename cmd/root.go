package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/servicedesk/config"
	"github.com/s0up4200/servicedesk/servicedesk"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *servicedesk.Client

	// Global flags
	hostFlag     string
	usernameFlag string
	passwordFlag string
	queryFlag    string
	rawFlag      bool

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jsd",
	Short: "A command line client for the Jira Service Desk REST API",
	Long: `jsd talks to the Jira Service Desk REST API (rest/servicedeskapi) using
Basic authentication. Every command performs exactly one API call per resource
and prints the raw JSON response.

Connection details are read from config.yaml (., ~/.jsd, /etc/jsd), from
JSD_* environment variables, and from the global flags, in increasing order
of precedence.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version reported by --version and the User-Agent
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.StringVar(&hostFlag, "host", "", "service desk base URL, e.g. https://jira.example.com/")
	flags.StringVarP(&usernameFlag, "username", "u", "", "username for Basic authentication")
	flags.StringVarP(&passwordFlag, "password", "p", "", "password or API token for Basic authentication")
	flags.StringVarP(&queryFlag, "query", "q", "", "gjson path to extract from the response body")
	flags.BoolVar(&rawFlag, "raw", false, "print the response body only, without formatting")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(serviceDeskCmd)
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile, flagOverrides(cmd))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if !cfg.Output.Color {
		color.NoColor = true
	}

	opts := []servicedesk.Option{
		servicedesk.WithHost(cfg.ServiceDesk.Host),
		servicedesk.WithCredentials(cfg.ServiceDesk.Username, cfg.ServiceDesk.Password),
		servicedesk.WithLogger(logger),
		servicedesk.WithUserAgent(userAgent(cfg.ServiceDesk.UserAgent)),
	}
	if cfg.ServiceDesk.Timeout > 0 {
		opts = append(opts, servicedesk.WithTimeout(cfg.ServiceDesk.Timeout))
	}
	if rl := cfg.ServiceDesk.RateLimit; rl.Enabled() {
		opts = append(opts, servicedesk.WithRateLimit(rl.RPS, rl.Burst))
	}

	client, err = servicedesk.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create service desk client: %w", err)
	}

	logger.Debug().
		Str("host", cfg.ServiceDesk.Host).
		Str("username", cfg.ServiceDesk.Username).
		Msg("Service desk client initialized")

	return nil
}

// flagOverrides maps explicitly set global flags onto config keys
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := make(map[string]any)
	flags := cmd.Flags()
	if flags.Changed("host") {
		overrides["servicedesk.host"] = hostFlag
	}
	if flags.Changed("username") {
		overrides["servicedesk.username"] = usernameFlag
	}
	if flags.Changed("password") {
		overrides["servicedesk.password"] = passwordFlag
	}
	return overrides
}

func userAgent(configured string) string {
	if configured != "" {
		return configured
	}
	return "jsd/" + version
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// outputFor collects the output settings from the global flags
func outputFor(filterExpr string) outputOptions {
	return outputOptions{
		Query:  queryFlag,
		Raw:    rawFlag,
		Filter: filterExpr,
		Color:  !color.NoColor,
	}
}

// respond prints resp for cmd and fails on non-2xx statuses
func respond(cmd *cobra.Command, resp *servicedesk.Response, filterExpr string) error {
	return writeResponse(cmd.OutOrStdout(), cmd.ErrOrStderr(), resp, outputFor(filterExpr))
}
