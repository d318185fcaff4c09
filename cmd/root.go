package cmd

import (
	"fmt"

	"repopack/pkg/bundle"
	"repopack/pkg/config"
	"repopack/pkg/gitrepo"
	"repopack/pkg/logging"
	"repopack/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	rootLogger *zap.Logger
	cfg        *viper.Viper

	flagBranch    string
	flagPath      string
	flagOutputDir string
	flagTreeDepth int
	flagExclude   []string
	flagStrict    bool
	flagDebug     bool
)

// RootCmd is the base command; it carries the aggregation operation itself.
var RootCmd = &cobra.Command{
	Use:   "repopack <repository-url>",
	Short: "repopack archives a repository into a single text artifact",
	Long: `repopack clones a Git repository, concatenates its textual files with
repository metadata and a directory tree into one text document, and writes
the document together with a gzip-compressed copy.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Init()
		if err != nil {
			return err
		}
		return config.BindFlags(cfg, cmd, map[string]string{
			"branch":     config.KeyBranch,
			"output-dir": config.KeyOutputDir,
			"tree-depth": config.KeyTreeDepth,
			"strict":     config.KeyStrict,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := rootLogger
		if flagDebug {
			if err := logging.Setup(true, "repopack", version.Get().Version); err != nil {
				return fmt.Errorf("failed to initialize debug logger: %w", err)
			}
			logger = logging.Logger
		}

		repoURL := args[0]
		if err := gitrepo.ValidateURL(repoURL); err != nil {
			return err
		}

		opts := bundle.Options{
			RepoURL:   repoURL,
			Branch:    cfg.GetString(config.KeyBranch),
			SubPath:   flagPath,
			OutputDir: cfg.GetString(config.KeyOutputDir),
			TreeDepth: cfg.GetInt(config.KeyTreeDepth),
			Exclude:   flagExclude,
			Strict:    cfg.GetBool(config.KeyStrict),
		}

		_, err := bundle.Run(cmd.Context(), opts, logger)
		return err
	},
}

// Execute runs the root command with the given logger.
func Execute(logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.Execute()
}

func init() {
	RootCmd.Flags().StringVarP(&flagBranch, "branch", "b", config.DefaultBranch, "branch or reference to clone")
	RootCmd.Flags().StringVarP(&flagPath, "path", "p", "", "restrict aggregation to a path inside the repository")
	RootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", config.DefaultOutputDir, "directory receiving the artifacts")
	RootCmd.Flags().IntVar(&flagTreeDepth, "tree-depth", config.DefaultTreeDepth, "directory tree depth limit")
	RootCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "extra ignore patterns (gitignore style)")
	RootCmd.Flags().BoolVar(&flagStrict, "strict", false, "fail when a selected file cannot be read")
	RootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable verbose development logging")
}
