package usecase

import (
	"context"

	sensorin "deskwatch/internal/modules/sensor/port/in"
	"deskwatch/internal/modules/sensor/service"
)

type Interactor struct {
	svc *service.IngestService
}

func NewInteractor(svc *service.IngestService) sensorin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.svc.Run(ctx)
}
