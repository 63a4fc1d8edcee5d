// Command markexport renders a project's annotations over its photo and
// writes the result as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"surveymark/internal/annotation"
	"surveymark/internal/export"
	"surveymark/internal/photo"
	"surveymark/internal/project"
	"surveymark/internal/store"
)

func main() {
	projectPath := flag.String("p", "", "Path to .svmark project file")
	photoPath := flag.String("photo", "", "Override photo path from the project")
	out := flag.String("o", "", "Output PNG path (default <project>.png)")
	maxEdge := flag.Int("max-edge", 0, "Limit the longest output edge in pixels (0 = project setting)")
	pull := flag.Bool("pull", false, "Fetch annotations from the project's server instead of the inline copy")
	flag.Parse()

	if *projectPath == "" {
		fmt.Println("Usage: markexport -p <project.svmark> [-photo <image>] [-o <out.png>] [-max-edge <px>] [-pull]")
		os.Exit(1)
	}

	proj, err := project.Load(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
		os.Exit(1)
	}

	doc, err := loadDocument(proj, *pull)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load annotations: %v\n", err)
		os.Exit(1)
	}

	var p *photo.Photo
	imgPath := *photoPath
	if imgPath == "" {
		imgPath = proj.GetPhotoPath(*projectPath)
	}
	if imgPath != "" {
		p, err = photo.Load(imgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load photo %s: %v\n", imgPath, err)
			os.Exit(1)
		}
	}

	edge := *maxEdge
	if edge == 0 {
		edge = proj.Settings.ExportMaxEdge
	}

	outPath := *out
	if outPath == "" {
		outPath = *projectPath + ".png"
	}

	if err := export.WritePNG(outPath, doc, p, edge); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d annotations to %s\n", len(doc.Shapes()), outPath)
}

func loadDocument(proj *project.File, pull bool) (*annotation.Document, error) {
	if pull {
		if proj.ServerURL == "" {
			return nil, fmt.Errorf("project has no server URL")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return store.NewClient(proj.ServerURL).Load(ctx, proj.ImageID)
	}
	if len(proj.Annotations) == 0 {
		return annotation.NewDocument(proj.ImageID), nil
	}
	return annotation.DecodeDocument(context.Background(), proj.Annotations)
}
