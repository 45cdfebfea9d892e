package main

import (
	"RepoVerification/internal/config"
	"RepoVerification/internal/metrics"
	"RepoVerification/internal/progress"
	"RepoVerification/internal/report"
	"RepoVerification/internal/verify"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitError   = 1
	exitCorrupt = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newRootCmd(stdout, stderr, &code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
	return code
}

type flags struct {
	configPath    string
	suffix        string
	algorithm     string
	reportFile    string
	progress      bool
	failOnCorrupt bool
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "repoverify <repository-path>",
		Short: "Find corrupted artifacts in a local package repository",
		Long: `Walks a local package repository (for example ~/.m2/repository or
C:\Users\<name>\.m2\repository) and recomputes the digest of every artifact
that has a checksum file next to it. Artifacts whose digest does not match
are listed by absolute path; delete them and let the build fetch them again.
Nothing in the repository is modified.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, _ = fmt.Fprintln(stdout, "Please specify the repository path, e.g. ~/.m2/repository")
				return cmd.Usage()
			}

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			corrupt, err := verifyRepository(args[0], cfg, stdout, stderr)
			if err != nil {
				return err
			}
			if cfg.FailOnCorrupt && corrupt > 0 {
				*code = exitCorrupt
			}
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&f.suffix, "suffix", ".sha1", "checksum file suffix")
	cmd.Flags().StringVar(&f.algorithm, "alg", "", "hash algorithm (SHA1, SHA256, SHA384, SHA512, MD5); default follows the suffix")
	cmd.Flags().StringVar(&f.reportFile, "report", "", "also write corrupt artifact paths to this file")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress spinner on stderr")
	cmd.Flags().BoolVar(&f.failOnCorrupt, "fail-on-corrupt", false, "exit with status 3 when corrupt artifacts are found")

	return cmd
}

// loadConfig reads the config file, if any, and lets explicitly set flags
// override it.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("suffix") {
		cfg.Suffix = f.suffix
	}
	if changed("alg") {
		cfg.Algorithm = f.algorithm
	}
	if changed("report") {
		cfg.ReportFile = f.reportFile
	}
	if changed("progress") {
		cfg.Progress = f.progress
	}
	if changed("fail-on-corrupt") {
		cfg.FailOnCorrupt = f.failOnCorrupt
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func verifyRepository(root string, cfg config.Config, stdout, stderr io.Writer) (int, error) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	printer := report.New(stdout)

	if cfg.ReportFile != "" {
		f, err := printer.CreateList(cfg.ReportFile)
		if err != nil {
			return 0, err
		}
		defer func(f *os.File) {
			if err := f.Close(); err != nil {
				logger.Warn("closing report file", "path", cfg.ReportFile, "err", err)
			}
		}(f)
	}

	stats := &metrics.Stats{}
	var bar *progress.Bar
	if cfg.Progress {
		bar = progress.New(stderr, func() (checked, corrupt, unreadable, bytesHashed int64) {
			return atomic.LoadInt64(&stats.Checked),
				stats.Corrupt(),
				atomic.LoadInt64(&stats.Unreadable),
				atomic.LoadInt64(&stats.BytesHashed)
		})
	}

	v, err := verify.New(verify.Options{
		Suffix:    cfg.Suffix,
		Algorithm: cfg.ResolvedAlgorithm(),
		Logger:    logger,
		Reporter:  printer,
		Stats:     stats,
		Bar:       bar,
	})
	if err != nil {
		if bar != nil {
			bar.Close()
		}
		return 0, err
	}

	printer.Banner(root)
	stats.Start()
	res, err := v.VerifyTree(root)
	stats.Stop()
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		return 0, err
	}

	metrics.Print(stdout, stats)
	if n := printer.ListErrors(); n > 0 {
		logger.Warn("some paths could not be written to the report file", "path", cfg.ReportFile, "count", n)
	}
	if res.Corrupt() > 0 {
		_, _ = fmt.Fprintln(stdout, "Delete the files listed above and let the build download them again.")
	}
	return res.Corrupt(), nil
}
