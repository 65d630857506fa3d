// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"time"

	"tree-heat/internal/app"
	"tree-heat/internal/version"
	"tree-heat/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const frameInterval = time.Second / 30

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	session   *app.Session
	canvas    *canvas.HeatCanvas
	statusBar *widget.Label

	done chan struct{}
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, title string) *MainWindow {
	win := fyneApp.NewWindow(title)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		done:    make(chan struct{}),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	cfg := mw.session.Config()
	mw.canvas = canvas.NewHeatCanvas(cfg.Width, cfg.Height)
	mw.statusBar = widget.NewLabel(fmt.Sprintf("%d features, %s mode",
		mw.session.Features().FeatureCount(), cfg.Mode))

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvas,                         // center
	)

	mw.SetContent(content)
	mw.SetFixedSize(true)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for session and keyboard events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventFrameRendered, func(data interface{}) {
		frame, ok := data.(*app.Frame)
		if !ok {
			return
		}
		mw.canvas.SetFrame(frame.Raster)
		mw.updateStatus(fmt.Sprintf("(%.1f, %.1f)  score %d  %d features",
			frame.Candidate.X, frame.Candidate.Y, frame.Score, mw.session.Features().FeatureCount()))
	})

	mw.session.On(app.EventFeatureCommitted, func(data interface{}) {
		mw.canvas.Refresh()
	})

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.app.Quit()
		}
	})

	mw.SetOnClosed(func() {
		close(mw.done)
	})
}

// Run renders the first frame and starts the frame loop. The pointer is polled once
// per tick and a frame is rendered whenever its state changed.
func (mw *MainWindow) Run() {
	last, _ := mw.canvas.Pointer()
	if _, err := mw.session.Frame(last); err != nil {
		mw.updateStatus("Render failed: " + err.Error())
	}

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-mw.done:
				return
			case <-ticker.C:
			}
			ev, _ := mw.canvas.Pointer()
			if ev == last {
				continue
			}
			last = ev
			if _, err := mw.session.Frame(ev); err != nil {
				mw.updateStatus("Render failed: " + err.Error())
			}
		}
	}()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		fmt.Sprintf("%s\n\n"+
			"Interactive tree proximity heat map.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.String(), version.BuildTime, version.GitCommit),
		mw.Window)
}
