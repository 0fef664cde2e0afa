// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driveup-workers/pkg/registry"
)

func main() {
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to activity registry")
	activityID := flag.String("id", "", "Activity ID to scaffold")
	outputDir := flag.String("output", "internal/workers", "Output directory")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activityID == "" {
		fmt.Println("Error: -id is required")
		flag.Usage()
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *activityID {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		fmt.Printf("Error: activity %s not found in registry\n", *activityID)
		os.Exit(1)
	}

	data, err := newWorkerData(*activity)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, strings.ToLower(activity.Category), activity.ID)
	written, err := generate(workerDir, data, *force)
	for _, path := range written {
		fmt.Printf("generated %s\n", path)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWorker scaffold ready at %s\n", workerDir)
	fmt.Println("Next steps:")
	fmt.Println("  1. Implement Execute in handler.go")
	fmt.Println("  2. Register the handler in cmd/worker-manager/main.go")
	fmt.Println("  3. Add the worker to configs/config.yaml")
}
