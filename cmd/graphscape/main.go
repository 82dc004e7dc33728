// Command graphscape runs a one-shot layout over a snapshot file and
// prints positions, clusters, and metrics. Mainly a development aid:
// the engine is normally embedded by a host application.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/graphscape/pkg/config"
	"github.com/dd0wney/graphscape/pkg/engine"
	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/layout"
	"github.com/dd0wney/graphscape/pkg/pubsub"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// snapshotFile is the on-disk JSON shape accepted by -input
type snapshotFile struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults used when empty)")
		inputPath  = flag.String("input", "", "snapshot JSON file with nodes and edges")
		quick      = flag.Bool("quick", false, "cap iterations for a fast interactive layout")
		asJSON     = flag.Bool("json", false, "emit the raw layout result as JSON")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("missing -input snapshot file"))
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Layout.QuickLayout = cfg.Layout.QuickLayout || *quick

	snap, err := readSnapshot(*inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	eng.SetSnapshot(snap.Nodes, snap.Edges)

	// Stream progress milestones to stderr while the layout runs
	sub := eng.Bus().Subscribe(pubsub.TopicLayoutProgress)
	go func() {
		for ev := range sub.Channel() {
			if p, ok := ev.(layout.Progress); ok {
				fmt.Fprintf(os.Stderr, "\r%s %3.0f%% (%s)   ", "layout", p.Percent, p.Phase)
			}
		}
	}()

	result, err := eng.RecomputeLayout(context.Background())
	sub.Unsubscribe()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return
	}

	printResult(eng, result)
}

func readSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

func printResult(eng *engine.Engine, result *layout.Result) {
	fmt.Println(titleStyle.Render("graphscape layout"))
	fmt.Printf("outcome: %s after %s iterations (energy %.4f)\n",
		valueStyle.Render(string(result.Outcome)),
		valueStyle.Render(fmt.Sprint(result.Iterations)),
		result.FinalEnergy)

	fmt.Println(sectionStyle.Render("clusters"))
	for _, c := range result.Clusters {
		fmt.Printf("  %s: %d nodes, radius %.2f\n", c.ID, len(c.NodeIDs), c.Radius)
	}
	if len(result.Clusters) == 0 {
		fmt.Println("  (none)")
	}

	if m, err := eng.Metrics(context.Background()); err == nil {
		fmt.Println(sectionStyle.Render("metrics"))
		fmt.Printf("  nodes %d  edges %d  avg degree %.2f  density %.4f  clustering %.3f  diameter ~%.1f\n",
			m.NodeCount, m.EdgeCount, m.AverageDegree, m.Density, m.Clustering, m.DiameterEstimate)
	}

	fmt.Println(sectionStyle.Render("positions"))
	ids := make([]string, 0, len(result.Positions))
	for id := range result.Positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := result.Positions[id]
		fmt.Printf("  %-24s (%8.2f, %8.2f, %8.2f)\n", id, p.X, p.Y, p.Z)
	}
}
