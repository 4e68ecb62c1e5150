package main

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/version"
)

const githubURL = "https://github.com/oukeidos/sentiview"

func buildAboutTab() fyne.CanvasObject {
	u, _ := url.Parse(githubURL)
	return container.NewPadded(container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("About", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("App", widget.NewLabel(windowTitle)),
			widget.NewFormItem("Version", widget.NewLabel(version.Version)),
			widget.NewFormItem("Commit", widget.NewLabel(version.Commit)),
			widget.NewFormItem("Build", widget.NewLabel(version.BuildDate)),
			widget.NewFormItem("Labels", widget.NewLabel("Negative / Positive ("+metadata.ReferenceModel+" label set)")),
			widget.NewFormItem("Links", widget.NewHyperlink("GitHub", u)),
		),
		widget.NewSeparator(),
		widget.NewLabel("Sentences are sent to the selected backend for classification.\nNothing is stored between runs."),
	)))
}
