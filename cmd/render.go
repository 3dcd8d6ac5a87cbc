package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"firestige.xyz/netvis/internal/analysis"
	"firestige.xyz/netvis/internal/core"
	"firestige.xyz/netvis/internal/metrics"
	"firestige.xyz/netvis/internal/summary"
)

// captureReport is everything a finished capture prints.
type captureReport struct {
	Session string          `json:"session" yaml:"session"`
	Device  string          `json:"device" yaml:"device"`
	Packets []packetLine    `json:"packets" yaml:"packets"`
	Stats   analysis.Report `json:"stats" yaml:"stats"`
}

type packetLine struct {
	Index   int    `json:"index" yaml:"index"`
	Second  int64  `json:"second" yaml:"second"`
	Bytes   int    `json:"bytes" yaml:"bytes"`
	Layer   string `json:"layer" yaml:"layer"`
	Summary string `json:"summary" yaml:"summary"`
}

func buildCaptureReport(session, device string, packets []core.Packet) (captureReport, error) {
	stats, err := analysis.BuildReport(packets)
	if err != nil {
		return captureReport{}, err
	}

	rep := captureReport{
		Session: session,
		Device:  device,
		Packets: make([]packetLine, len(packets)),
		Stats:   stats,
	}
	for i, p := range packets {
		s := summary.Classify(p)
		metrics.PacketsClassifiedTotal.WithLabelValues(s.Layer.String()).Inc()
		rep.Packets[i] = packetLine{
			Index:   i + 1,
			Second:  p.CapturedAt() - stats.StartSecond,
			Bytes:   p.TotalSize(),
			Layer:   s.Layer.String(),
			Summary: s.Text,
		}
	}
	return rep, nil
}

type renderer interface {
	Render(w io.Writer, rep captureReport) error
}

func newRenderer(format string) renderer {
	switch format {
	case "", "text":
		return textRenderer{}
	case "json":
		return jsonRenderer{}
	case "yaml":
		return yamlRenderer{}
	default:
		return nil
	}
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, rep captureReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, rep captureReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

var layerColors = map[core.Layer]*color.Color{
	core.LayerHTTP:     color.New(color.FgHiMagenta),
	core.LayerRTP:      color.New(color.FgHiCyan),
	core.LayerRTCPRR:   color.New(color.FgCyan),
	core.LayerRTCPSR:   color.New(color.FgCyan),
	core.LayerSDP:      color.New(color.FgHiBlue),
	core.LayerUDP:      color.New(color.FgBlue),
	core.LayerTCP:      color.New(color.FgGreen),
	core.LayerIP:       color.New(color.FgYellow),
	core.LayerARP:      color.New(color.FgHiYellow),
	core.LayerEthernet: color.New(color.FgWhite),
	core.LayerUnknown:  color.New(color.FgRed),
}

type textRenderer struct{}

func (textRenderer) Render(w io.Writer, rep captureReport) error {
	bold := color.New(color.Bold)

	for _, p := range rep.Packets {
		tag := fmt.Sprintf("%-9s", p.Layer)
		if c, ok := layerColors[core.Layer(p.Layer)]; ok {
			tag = c.Sprint(tag)
		}
		fmt.Fprintf(w, "%s Packet %d: %d bytes | %s\n", tag, p.Index, p.Bytes, p.Summary)
	}

	s := rep.Stats
	fmt.Fprintln(w)
	bold.Fprintf(w, "Session %s on %s\n", rep.Session, rep.Device)
	fmt.Fprintf(w, "Packets: %d  Bytes: %d  Duration: %ds\n", s.Packets, s.TotalBytes, s.DurationSeconds)
	fmt.Fprintf(w, "TCP resets: %d  TCP urgent: %d\n", s.TCPResets, s.TCPUrgent)

	bold.Fprintln(w, "Per second:")
	pps := make(map[int64]int, len(s.PacketsPerSecond))
	for _, p := range s.PacketsPerSecond {
		pps[p.Second] = p.Value
	}
	for _, p := range s.BytesPerSecond {
		fmt.Fprintf(w, "  %4ds  %6d packets  %8d bytes\n", p.Second, pps[p.Second], p.Value)
	}

	bold.Fprintln(w, "Layers:")
	layers := make([]string, 0, len(s.Layers))
	for l := range s.Layers {
		layers = append(layers, l)
	}
	sort.Strings(layers)
	for _, l := range layers {
		fmt.Fprintf(w, "  %-9s %d\n", l, s.Layers[l])
	}

	if len(s.Connections) > 0 {
		bold.Fprintln(w, "TCP connections:")
		for _, c := range s.Connections {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	return nil
}
