// Package main provides the entry point for the Surveymark desktop app.
package main

import (
	"log"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"surveymark/internal/app"
	"surveymark/internal/version"
	"surveymark/ui/mainwindow"
	"surveymark/ui/prefs"
)

const appTitle = "Surveymark"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.surveymark.app")
	state := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs)

	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := state.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.Resize(fyne.NewSize(1280, 800))
	win.CenterOnScreen()
	win.ShowAndRun()
}
