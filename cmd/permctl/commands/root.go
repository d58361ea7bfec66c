package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/internal/config"
	"github.com/armatrix/claude-permissions-go/permission"
)

// app carries the global flags and the loaded config to every command.
type app struct {
	configPath string
	logLevel   string
	settings   []string
	projectDir string

	cfg *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "permctl",
		Short: "permctl - tool-call permission rules",
		Long: `permctl classifies agent tool invocations such as "Bash(git status)"
against the allow, deny and ask pattern lists of Claude settings files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "permctl config file (json, yaml or toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Override log level (debug|info|warn|error)")
	flags.StringSliceVarP(&a.settings, "settings", "s", nil, "Settings files to merge, in order (default: user, project, local)")
	flags.StringVar(&a.projectDir, "project", "", "Project directory for the default settings search")

	cmd.AddCommand(
		newCheckCmd(a),
		newExplainCmd(a),
		newValidateCmd(a),
		newLintCmd(a),
		newHookCmd(a),
		newSchemaCmd(),
		newWatchCmd(a),
		NewVersionCmd(),
	)

	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if len(a.settings) > 0 {
		cfg.Settings.Paths = a.settings
	}
	if a.projectDir != "" {
		cfg.Settings.ProjectDir = a.projectDir
	}
	a.cfg = cfg
	return configureLogger(cfg, a.logLevel)
}

// loadPolicy merges the configured settings files.
func (a *app) loadPolicy() (permission.Policy, error) {
	paths := a.cfg.SettingsPaths()
	s, err := config.LoadSettings(paths...)
	if err != nil {
		return permission.Policy{}, err
	}
	slog.Debug("settings loaded", "sources", s.Sources)
	return s.Policy(), nil
}

// guardFor returns the configured guard extended with p's guarded tools.
func (a *app) guardFor(p permission.Policy) permission.Guard {
	return a.cfg.PermissionGuard().WithTools(p.GuardedTools...)
}

// compile loads and compiles the merged policy.
func (a *app) compile() (*permission.RuleSet, error) {
	p, err := a.loadPolicy()
	if err != nil {
		return nil, err
	}
	rs, err := permission.Compile(p, permission.WithGuard(a.guardFor(p)))
	if err != nil {
		return nil, fmt.Errorf("invalid permissions: %w", err)
	}
	return rs, nil
}
