package ads

import (
	"log/slog"

	adsadapters "adgate/go-client/internal/domains/ads/adapters"
	adsports "adgate/go-client/internal/domains/ads/ports"
	adsusecase "adgate/go-client/internal/domains/ads/usecase"
)

type Scheduler = adsusecase.Scheduler
type RewardConfig = adsusecase.RewardConfig
type Runner = adsadapters.Runner
type Collaborators = adsadapters.Collaborators
type Observer = adsadapters.Observer

type Module struct {
	Scheduler *Scheduler
	Runner    *Runner
}

// New wires the serialized scheduler to its effect runner.
func New(
	log *slog.Logger,
	tunnel adsports.TunnelStatusSource,
	probe adsports.LoadConditionProbe,
	reward RewardConfig,
	collab Collaborators,
	observer Observer,
) *Module {
	sched := adsusecase.NewScheduler(tunnel, probe, reward)
	runner := adsadapters.NewRunner(log, sched, collab, observer)
	return &Module{Scheduler: sched, Runner: runner}
}
