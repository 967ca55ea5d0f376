package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/BrianKoge/Ubuntu-Requests/internal/batch"
	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/service"
	"github.com/BrianKoge/Ubuntu-Requests/internal/fetch"
	"github.com/BrianKoge/Ubuntu-Requests/internal/journal"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
	obsadapters "github.com/BrianKoge/Ubuntu-Requests/internal/observability/adapters"
	"github.com/BrianKoge/Ubuntu-Requests/internal/registry"
	storageadapters "github.com/BrianKoge/Ubuntu-Requests/internal/storage/adapters"
)

type rootFlags struct {
	dir        string
	input      string
	maxSize    int64
	blocked    []string
	timeout    time.Duration
	delay      time.Duration
	noProgress bool
	storage    string
	bucket     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "imagefetcher [urls...]",
		Short: "Securely fetch images from the web",
		Long: `imagefetcher downloads images over HTTP(S) with security checks:
a domain blocklist, a streamed file-size ceiling, an image-format
allow-list, and SHA-256 content dedup within and across runs. Every
outcome is appended to download_log.txt and mirrored to stdout.

URLs are taken from arguments, from --input (one per line, # comments),
or from stdin when neither is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "", "destination directory (default from DOWNLOAD_DIR)")
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "file with one URL per line")
	cmd.Flags().Int64Var(&flags.maxSize, "max-size", 0, "maximum file size in bytes")
	cmd.Flags().StringSliceVar(&flags.blocked, "blocked", nil, "additional blocked domains")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "HTTP request timeout")
	cmd.Flags().DurationVar(&flags.delay, "delay", -1, "pause between requests")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().StringVar(&flags.storage, "storage", "", "storage backend: fs or s3")
	cmd.Flags().StringVar(&flags.bucket, "bucket", "", "S3 bucket (implies --storage s3)")

	return cmd
}

func run(cmd *cobra.Command, flags *rootFlags, args []string) error {
	cfg, err := loadConfiguration(flags)
	if err != nil {
		return err
	}

	urls, err := collectURLs(flags, args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided")
	}

	if err := observability.Initialize(cfg, &obsadapters.Factory{}); err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}

	logger, _ := observability.MustGetObservability("main")
	logger.Info("starting",
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
		"urls", len(urls),
		"dir", cfg.Download.Dir)

	if cfg.Metrics.Addr != "" {
		startMetricsListener(cfg.Metrics.Addr, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storageLogger, storageMetrics := observability.MustGetObservability("storage")
	store, err := (&storageadapters.Factory{}).Create(cfg, storageLogger, storageMetrics)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	defer reg.Close()

	jour, err := journal.Open(cfg.Download.LogFile, os.Stdout)
	if err != nil {
		return err
	}
	defer jour.Close()

	pipelineLogger, pipelineMetrics := observability.MustGetObservability("pipeline")
	pipeline := service.NewDownloader(
		cfg.Download,
		fetch.NewClient(cfg.HTTP),
		store,
		reg,
		pipelineLogger,
		pipelineMetrics,
	)

	driverLogger, driverMetrics := observability.MustGetObservability("batch")
	driver := batch.NewDriver(
		pipeline,
		jour,
		cfg.Download.RequestDelay,
		!flags.noProgress,
		driverLogger,
		driverMetrics,
	)

	results := driver.DownloadAll(ctx, urls)

	summary := batch.Summarize(results)
	fmt.Printf("\nDownload summary: %d saved, %d skipped, %d failed (of %d)\n",
		summary.Saved, summary.Skipped, summary.Failed, len(results))
	fmt.Printf("Files saved to: %s\n", cfg.Download.Dir)

	return nil
}

// loadConfiguration loads env-based config and applies flag overrides.
func loadConfiguration(flags *rootFlags) (*config.Config, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	cfg := config.MustGet()

	if flags.dir != "" {
		cfg.Download.Dir = flags.dir
	}
	if flags.maxSize > 0 {
		cfg.Download.MaxFileSizeBytes = flags.maxSize
	}
	if len(flags.blocked) > 0 {
		cfg.Download.BlockedDomains = append(cfg.Download.BlockedDomains, flags.blocked...)
	}
	if flags.timeout > 0 {
		cfg.HTTP.Timeout = flags.timeout
	}
	if flags.delay >= 0 {
		cfg.Download.RequestDelay = flags.delay
	}
	if flags.bucket != "" {
		cfg.Storage.S3Bucket = flags.bucket
		cfg.Storage.Adapter = "s3"
	}
	if flags.storage != "" {
		cfg.Storage.Adapter = flags.storage
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// collectURLs gathers URLs from args, an input file, or stdin.
func collectURLs(flags *rootFlags, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var source *os.File
	if flags.input != "" {
		file, err := os.Open(flags.input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		source = file
	} else {
		source = os.Stdin
	}

	var urls []string
	scanner := bufio.NewScanner(source)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URLs: %w", err)
	}

	return urls, nil
}

// openRegistry opens the cross-run hash index under the destination
// directory, or an in-memory registry when persistence is disabled.
func openRegistry(cfg *config.Config) (*registry.HashRegistry, error) {
	if cfg.Download.HashIndexFile == "" {
		return registry.New(), nil
	}

	if err := os.MkdirAll(cfg.Download.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	indexPath := filepath.Join(cfg.Download.Dir, cfg.Download.HashIndexFile)
	reg, err := registry.Open(indexPath)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func startMetricsListener(addr string, logger observability.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("metrics listener started", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics listener stopped", "error", err)
		}
	}()
}
