package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jamesb5959/cicflowmeter/internal/capture"
	"github.com/jamesb5959/cicflowmeter/internal/config"
	"github.com/jamesb5959/cicflowmeter/internal/engine"
	"github.com/jamesb5959/cicflowmeter/internal/logger"
	"github.com/jamesb5959/cicflowmeter/internal/metrics"
	"github.com/jamesb5959/cicflowmeter/internal/output"
	"github.com/jamesb5959/cicflowmeter/internal/version"
)

var (
	cfgPath      string
	inputFile    string
	ifaceName    string
	outputFile   string
	outputFormat string
	metricsAddr  string
	showVersion  bool
)

var rootCmd = &cobra.Command{
	Use:   "cicflowmeter",
	Short: "Extract bidirectional flow features from network traffic",
	Long: "cicflowmeter reads packets from a capture file or a live interface,\n" +
		"tracks bidirectional flows and emits one CICFlowMeter v3 compatible\n" +
		"feature record per completed flow.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.Flags().StringVarP(&inputFile, "input", "f", "", "capture file to replay (pcap or pcapng)")
	rootCmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface to capture from")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "", "output format: csv or json")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version and exit")
}

func run(cmd *cobra.Command, _ []string) error {
	if showVersion {
		fmt.Printf("cicflowmeter version %s\n", version.GetVersion())
		return nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// Flags override the config file.
	if inputFile != "" {
		cfg.Input.File = inputFile
		cfg.Input.Interface = ""
	}
	if ifaceName != "" {
		cfg.Input.Interface = ifaceName
		cfg.Input.File = ""
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.File = outputFile
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if metricsAddr != "" {
		cfg.Metrics.ListenAddr = metricsAddr
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.WithField("version", version.GetVersion()).Info("Starting cicflowmeter")

	if cfg.Metrics.ListenAddr != "" {
		log.WithField("addr", cfg.Metrics.ListenAddr).Info("Serving Prometheus metrics")
		go func() {
			if err := metrics.Serve(cfg.Metrics.ListenAddr); err != nil {
				log.WithError(err).Error("Metrics listener failed")
			}
		}()
	}

	var src capture.Source
	switch {
	case cfg.Input.File != "":
		src, err = capture.OpenFile(cfg.Input.File)
		if err != nil {
			return err
		}
		log.WithField("file", cfg.Input.File).Info("Replaying capture file")
	case cfg.Input.Interface != "":
		src, err = capture.OpenLive(cfg.Input.Interface)
		if err != nil {
			return err
		}
		log.WithField("interface", cfg.Input.Interface).Info("Capturing live traffic")
	default:
		return fmt.Errorf("no input: set --input or --interface")
	}
	defer src.Close()

	var sink output.Writer
	switch cfg.Output.Format {
	case "json":
		sink, err = output.NewJSONWriter(cfg.Output.File)
	default:
		sink, err = output.NewCSVWriter(cfg.Output.File)
	}
	if err != nil {
		return err
	}

	eng := engine.New(engine.Config{
		ExpireScanInterval: cfg.Flow.ExpireScanIntervalPackets,
		StatsInterval:      30 * time.Second,
	}, cfg.Core(), src, sink, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := eng.Run(ctx)
	if err := sink.Close(); runErr == nil {
		runErr = err
	}

	st := eng.Stats()
	log.WithFields(logrus.Fields{
		"packets_seen":    st.PacketsSeen,
		"packets_dropped": st.PacketsDropped,
		"records_written": st.RecordsWritten,
	}).Info("Finished")

	return runErr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
