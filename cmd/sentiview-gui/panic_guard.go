package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/oukeidos/sentiview/internal/logger"
)

func withPanicGuard(scope string, onPanic func(any), fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered panic", "scope", scope, "panic", fmt.Sprint(r))
			if onPanic != nil {
				onPanic(r)
			}
		}
	}()
	fn()
}

func (a *guiApp) safeGo(scope string, fn func()) {
	go withPanicGuard(scope, func(any) { a.recovered(scope) }, fn)
}

// safeDo runs fn on the UI goroutine.
func (a *guiApp) safeDo(scope string, fn func()) {
	fyne.Do(func() {
		withPanicGuard(scope, func(any) { a.recovered(scope) }, fn)
	})
}

// recovered stops the current run and tells the user once per panic.
func (a *guiApp) recovered(scope string) {
	a.jobs.Cancel("panic recovered: " + scope)
	if fyne.CurrentApp() == nil || a.window == nil {
		return
	}
	fyne.Do(func() {
		withPanicGuard(scope+".notice", nil, func() {
			if a.analyzeBtn != nil {
				a.setBusy(false)
			}
			dialog.ShowInformation(
				"Unexpected Error",
				"An internal error occurred and the current analysis was stopped. Please try again. If this repeats, restart the app.",
				a.window,
			)
		})
	})
}
