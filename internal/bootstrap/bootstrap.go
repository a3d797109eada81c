package bootstrap

import (
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	sensoroutadapter "deskwatch/internal/modules/sensor/adapter/out"
	sensorin "deskwatch/internal/modules/sensor/port/in"
	sensorout "deskwatch/internal/modules/sensor/port/out"
	sensorservice "deskwatch/internal/modules/sensor/service"
	sensorusecase "deskwatch/internal/modules/sensor/usecase"
	trackerinadapter "deskwatch/internal/modules/tracker/adapter/in"
	trackeroutadapter "deskwatch/internal/modules/tracker/adapter/out"
	trackerin "deskwatch/internal/modules/tracker/port/in"
	trackerout "deskwatch/internal/modules/tracker/port/out"
	trackerservice "deskwatch/internal/modules/tracker/service"
	trackerusecase "deskwatch/internal/modules/tracker/usecase"
	"deskwatch/internal/platform/clock"
	"deskwatch/internal/platform/config"
	uiapp "deskwatch/internal/ui/app"

	tea "github.com/charmbracelet/bubbletea"
)

type App struct {
	Config     config.Config
	Log        hclog.Logger
	Tracker    trackerin.Usecase
	TrackerCLI trackerinadapter.CLIHandler
	// Ingest is nil when no sensor source is configured; everything else
	// still works in web-only mode.
	Ingest    sensorin.Usecase
	Daemon    trackerout.DaemonStore
	IPCServer trackerout.IPCServer
	IPCClient trackerout.IPCClient
}

func New(cfg config.Config, log hclog.Logger) (*App, error) {
	clk := clock.SystemClock{}

	store, err := trackeroutadapter.NewSQLiteSessionStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	slot := trackerservice.NewSlotService(clk, store, log.Named("slot"))
	trackerUC := trackerusecase.NewInteractor(slot, store, log.Named("tracker"))

	var source sensorout.LineSource
	switch cfg.Source {
	case config.SourceSerial:
		source = sensoroutadapter.NewSerialSource(cfg.Serial.Port, cfg.Serial.Baud, cfg.Serial.VendorIDs, log.Named("serial"))
	case config.SourcePlugin:
		source = sensoroutadapter.NewPluginSource(cfg.Plugin.Binary, log.Named("plugin"))
	}
	var ingest sensorin.Usecase
	if source != nil {
		ingest = sensorusecase.NewInteractor(
			sensorservice.NewIngestService(source, trackerUC, log.Named("ingest"), cfg.ReconnectDelay()),
		)
	}

	return &App{
		Config:     cfg,
		Log:        log,
		Tracker:    trackerUC,
		TrackerCLI: trackerinadapter.NewCLIHandler(trackerUC),
		Ingest:     ingest,
		Daemon:     trackeroutadapter.NewFileDaemonStore(cfg.DataDir),
		IPCServer:  trackeroutadapter.NewJSONRPCServer(),
		IPCClient:  trackeroutadapter.NewJSONRPCClient(),
	}, nil
}

func RunTUI(app *App, owner string) error {
	model := uiapp.NewModel(owner, app.TrackerCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
