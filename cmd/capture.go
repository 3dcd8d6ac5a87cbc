package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/muesli/cancelreader"
	"github.com/spf13/cobra"

	"firestige.xyz/netvis/internal/capture"
	"firestige.xyz/netvis/internal/config"
	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/log"
	"firestige.xyz/netvis/internal/metrics"
	"firestige.xyz/netvis/internal/tui"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture packets and report what was seen",
	Long: `
Capture frames from a network interface until Enter is pressed, SIGINT/SIGTERM
arrives or --duration elapses, then print one summary line per packet followed
by traffic statistics.

Examples:
  netvis capture -i eth0                          # capture until Enter or Ctrl-C
  netvis capture -i eth0 -d 10s -o json           # capture 10 seconds, JSON report
  netvis capture -i eth0 -f "udp port 5060" --tui # browse SIP traffic interactively
  netvis capture -c netvis.yml --backend afpacket # AF_PACKET ring, settings from file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyCaptureFlags(cmd, cfg); err != nil {
			return err
		}
		logFile, err := log.Init(cfg.Log)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		defer logFile.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Metrics.Enabled {
			srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
			if err := srv.Start(ctx); err != nil {
				return err
			}
			defer srv.Stop(context.Background())
		}

		return runCapture(ctx, liveOpener{}, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := captureCmd.Flags()
	f.StringP("interface", "i", "", "network interface to capture on")
	f.String("backend", "", "capture backend: pcap or afpacket")
	f.StringP("filter", "f", "", "BPF filter expression")
	f.Int("snaplen", 0, "maximum bytes captured per frame")
	f.DurationP("duration", "d", 0, "stop after this long (0 waits for Enter or a signal)")
	f.StringP("output", "o", "", "report format: text, json or yaml")
	f.Bool("tui", false, "browse the capture in a terminal UI")
	f.Bool("no-color", false, "disable coloured text output")
}

// applyCaptureFlags overrides cfg with the flags set on the command line.
func applyCaptureFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("interface") {
		cfg.Capture.Device, _ = f.GetString("interface")
	}
	if f.Changed("backend") {
		cfg.Capture.Backend, _ = f.GetString("backend")
	}
	if f.Changed("filter") {
		cfg.Capture.BPFFilter, _ = f.GetString("filter")
	}
	if f.Changed("snaplen") {
		cfg.Capture.SnapLen, _ = f.GetInt("snaplen")
	}
	if f.Changed("duration") {
		cfg.Capture.Duration, _ = f.GetDuration("duration")
	}
	if f.Changed("output") {
		cfg.Output.Format, _ = f.GetString("output")
	}
	if f.Changed("tui") {
		cfg.Output.TUI, _ = f.GetBool("tui")
	}
	if noColor, _ := f.GetBool("no-color"); noColor {
		cfg.Output.Color = false
	}

	if cfg.Capture.Device == "" {
		return fmt.Errorf("%w: no capture interface (use -i or capture.device)", core.ErrConfigInvalid)
	}
	return cfg.Validate()
}

// runCapture opens the device, runs one session until a stop trigger fires
// and renders the result to out. Progress messages go to prompt so that
// structured reports on out stay parseable.
func runCapture(ctx context.Context, opener HandleOpener, cfg *config.Config, in io.Reader, out, prompt io.Writer) error {
	h, err := opener.Open(cfg.Capture)
	if err != nil {
		return err
	}
	defer h.Close()

	sess := capture.NewSession(h, capture.WithDevice(cfg.Capture.Device))
	if err := sess.Start(); err != nil {
		return err
	}
	if cfg.Capture.Duration > 0 {
		fmt.Fprintf(prompt, "Capturing on %s for %s...\n", cfg.Capture.Device, cfg.Capture.Duration)
	} else {
		fmt.Fprintf(prompt, "Capturing on %s, press Enter to stop...\n", cfg.Capture.Device)
	}

	waitForStop(ctx, sess.Done(), in, cfg.Capture.Duration)

	// A fatal read still leaves the frames read before it; report them and
	// return the error afterwards.
	stopErr := sess.Stop()
	if stopErr != nil {
		stopErr = fmt.Errorf("capture on %s: %w", cfg.Capture.Device, stopErr)
	}
	packets, err := sess.Packets()
	if err != nil {
		return err
	}
	stats := sess.Stats()
	slog.Debug("capture finished",
		"packets", stats.Packets.Load(),
		"bytes", stats.Bytes.Load(),
		"timeouts", stats.Timeouts.Load())

	if len(packets) == 0 {
		fmt.Fprintln(prompt, "No packets captured.")
		return stopErr
	}

	if cfg.Output.TUI && stopErr == nil {
		m, err := tui.NewModel(cfg.Capture.Device, packets)
		if err != nil {
			return err
		}
		return tui.Run(m)
	}

	color.NoColor = color.NoColor || !cfg.Output.Color
	r := newRenderer(cfg.Output.Format)
	if r == nil {
		return fmt.Errorf("%w: output format %q", core.ErrConfigInvalid, cfg.Output.Format)
	}
	rep, err := buildCaptureReport(sess.ID(), cfg.Capture.Device, packets)
	if err != nil {
		return err
	}
	if err := r.Render(out, rep); err != nil {
		return err
	}
	return stopErr
}

// waitForStop blocks until Enter on in, ctx cancellation, the duration
// elapsing or done closing. The read on in is cancelled before returning
// so nothing keeps consuming input afterwards.
func waitForStop(ctx context.Context, done <-chan struct{}, in io.Reader, d time.Duration) {
	enter := make(chan struct{})

	cr, err := cancelreader.NewReader(in)
	if err != nil {
		slog.Warn("stdin is not cancellable, Enter will not stop the capture", "error", err)
	} else {
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			if readLine(cr) == nil {
				close(enter)
			}
		}()
		defer func() {
			// Only a real cancel unblocks the reader; the fallback for
			// non-file readers cannot interrupt a Read in progress.
			if cr.Cancel() {
				<-readerDone
			}
			cr.Close()
		}()
	}

	var deadline <-chan time.Time
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		deadline = t.C
	}

	select {
	case <-ctx.Done():
	case <-deadline:
	case <-enter:
	case <-done:
	}
}

// readLine consumes input one byte at a time up to and including '\n', so
// nothing past the line is taken from in.
func readLine(r io.Reader) error {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 && b[0] == '\n' {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
