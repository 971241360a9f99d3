// Command affixdemo stands up a small scene, wires reactive state around it,
// and runs a fixed number of frames, printing attribute changes as they are
// dispatched.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/affix/pkg/component"
	"github.com/go-drift/affix/pkg/dispatch"
	"github.com/go-drift/affix/pkg/frame"
	"github.com/go-drift/affix/pkg/manifest"
	"github.com/go-drift/affix/pkg/metric"
	"github.com/go-drift/affix/pkg/registry"
	"github.com/go-drift/affix/pkg/scene"
)

const defaultManifest = `
scene:
  name: hud
  class: Frame
  attributes:
    score: 0
    uptime: 0.0
  children:
    - name: healthbar
      class: Bar
      attributes:
        health: 100
`

func main() {
	var (
		manifestPath = flag.String("manifest", "", "path to a scene manifest YAML (optional)")
		frames       = flag.Int("frames", 120, "number of frames to run")
		metricsAddr  = flag.String("metrics", "", "listen address for the Prometheus endpoint (optional)")
	)
	flag.Parse()

	root, err := loadScene(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	dispatcher := dispatch.New()
	clock := frame.NewClock()
	manager := registry.New(dispatcher)

	if *metricsAddr != "" {
		metrics := metric.New()
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			fmt.Fprintf(os.Stderr, "Error registering metrics: %v\n", err)
			os.Exit(1)
		}
		dispatcher.SetMetrics(metrics)
		clock.SetMetrics(metrics)
		manager.SetMetrics(metrics)
		server := metric.NewServer(*metricsAddr, "", reg)
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting metrics server: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = server.Stop() }()
	}

	hud := component.New(root, manager, dispatcher, clock)

	if _, err := hud.Attribute("score", func(newValue, oldValue any) {
		fmt.Printf("score: %v -> %v\n", oldValue, newValue)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error observing score: %v\n", err)
		os.Exit(1)
	}

	if err := manager.Bind("award", func(args []any) {
		if len(args) > 0 {
			if _, err := hud.Update("score", args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "Error awarding score: %v\n", err)
			}
		}
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding award: %v\n", err)
		os.Exit(1)
	}

	hud.Lifecycle("uptime", func(elapsed time.Duration) {
		if _, err := hud.Update("uptime", elapsed.Seconds()); err != nil {
			fmt.Fprintf(os.Stderr, "Error tracking uptime: %v\n", err)
		}
	})

	for i := 0; i < *frames; i++ {
		clock.Step()
		if i > 0 && i%30 == 0 {
			if err := manager.Fire("award", 10); err != nil {
				fmt.Fprintf(os.Stderr, "Error firing award: %v\n", err)
			}
		}
		dispatcher.Flush()
		time.Sleep(16 * time.Millisecond)
	}

	hud.Destroy("score")
	hud.Destroy("uptime")
	manager.Unbind("award")

	fmt.Printf("final score=%v uptime=%.2fs\n", hud.Get("score"), hud.Get("uptime"))
}

// loadScene builds the node tree from a manifest file, falling back to the
// embedded default scene.
func loadScene(path string) (*scene.Node, error) {
	if path == "" {
		m, err := manifest.Parse([]byte(defaultManifest))
		if err != nil {
			return nil, err
		}
		return m.Build(), nil
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return m.Build(), nil
}
