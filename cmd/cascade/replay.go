package main

import (
	"fmt"
	"io"
	"os"

	"github.com/phanxgames/cascade"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// nodeRecord is the state of one node in one frame.
type nodeRecord struct {
	ID       string  `yaml:"id"`
	Status   string  `yaml:"status"`
	Target   string  `yaml:"target,omitempty"`
	Opacity  float64 `yaml:"opacity"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotate"`
}

// frameRecord lists the nodes animating in one frame.
type frameRecord struct {
	Frame int          `yaml:"frame"`
	Time  float64      `yaml:"time"`
	Nodes []nodeRecord `yaml:"nodes"`
}

func record(n *cascade.Node) nodeRecord {
	p := n.Presentation()
	return nodeRecord{
		ID: n.ID, Status: n.Status().String(), Target: n.Target(),
		Opacity: p.Opacity, X: p.X, Y: p.Y, Scale: p.Scale, Rotation: p.Rotation,
	}
}

func newReplayCmd() *cobra.Command {
	var fps int
	var format string
	cmd := &cobra.Command{
		Use:   "replay PAGE SCRIPT",
		Short: "Replay a script against a page and print animated frames",
		Long:  `Drives a headless orchestrator at a fixed frame rate. Every frame with animating nodes is printed, followed by the final state of every mounted node.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
			logger, debug := loggerFor(cmd)
			page, err := loadPage(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			runner, err := cascade.LoadScript(data)
			if err != nil {
				return err
			}
			o := cascade.New(page.Config(cascade.Config{Logger: logger, Debug: debug}))

			var frames []frameRecord
			onFrame := func(f cascade.Frame) {
				o.LogStats()
				rec := frameRecord{Frame: f.Index, Time: f.Time}
				o.Each(func(n *cascade.Node) {
					if n.Status().Active() {
						rec.Nodes = append(rec.Nodes, record(n))
					}
				})
				if len(rec.Nodes) > 0 {
					frames = append(frames, rec)
				}
			}
			if err := runner.Run(cmd.Context(), o, page, fps, onFrame); err != nil {
				return err
			}
			final := frameRecord{Frame: -1, Time: o.Now()}
			o.Each(func(n *cascade.Node) {
				final.Nodes = append(final.Nodes, record(n))
			})

			out := cmd.OutOrStdout()
			if format == "yaml" {
				return writeYAML(out, frames, final)
			}
			writeText(out, frames, final)
			return nil
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "Simulated frames per second")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	return cmd
}

func writeText(w io.Writer, frames []frameRecord, final frameRecord) {
	for _, f := range frames {
		fmt.Fprintf(w, "frame %d t=%.3f\n", f.Frame, f.Time)
		for _, n := range f.Nodes {
			writeNode(w, n)
		}
	}
	fmt.Fprintf(w, "final t=%.3f\n", final.Time)
	for _, n := range final.Nodes {
		writeNode(w, n)
	}
}

func writeNode(w io.Writer, n nodeRecord) {
	fmt.Fprintf(w, "  %-16s %-9s %-10s opacity=%.3f x=%.2f y=%.2f scale=%.3f rotate=%.2f\n",
		n.ID, n.Status, n.Target, n.Opacity, n.X, n.Y, n.Scale, n.Rotation)
}

func writeYAML(w io.Writer, frames []frameRecord, final frameRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Frames []frameRecord `yaml:"frames"`
		Final  frameRecord   `yaml:"final"`
	}{frames, final}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}
	return enc.Close()
}
