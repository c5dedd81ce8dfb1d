package scanrunner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"veriscan/internal/ports"
	"veriscan/internal/scan"
)

// Pipeline is the real scan processor: it runs the scoring pipeline for a
// queued scan, persists the result, and raises a drift notification when the
// domain's score moved since the previous scan.
type Pipeline struct {
	Scans        ports.ScanRepository
	Jobs         ports.JobRepository
	Results      ports.ResultRepository
	Orchestrator *scan.Orchestrator
	Notifier     ports.DriftNotifier
	Log          *zap.Logger
}

func (p *Pipeline) Process(ctx context.Context, scanID string) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	sc, err := p.Scans.Get(ctx, scanID)
	if err != nil {
		return fmt.Errorf("load scan %s: %w", scanID, err)
	}
	_ = p.Jobs.UpdateScanProgress(ctx, scanID, 0.1)

	// The orchestrator never fails outright; technical failures come back
	// as a result with Success=false and are persisted like any other.
	res := p.Orchestrator.Scan(ctx, sc.URL)
	_ = p.Jobs.UpdateScanProgress(ctx, scanID, 0.8)

	prev, hadPrev, err := p.Results.PreviousScore(ctx, scanID)
	if err != nil {
		log.Warn("previous score lookup failed", zap.String("scan_id", scanID), zap.Error(err))
		hadPrev = false
	}

	if err := p.Results.Save(ctx, scanID, res); err != nil {
		return fmt.Errorf("save result for scan %s: %w", scanID, err)
	}

	if hadPrev && res.Success && prev != res.RiskScore && p.Notifier != nil {
		registrable := sc.DomainRef
		if target, terr := scan.NormalizeTarget(sc.URL); terr == nil {
			registrable = target.RegistrableDomain
		}
		if err := p.Notifier.ScoreChanged(ctx, registrable, prev, res.RiskScore); err != nil {
			log.Warn("drift notification failed", zap.String("scan_id", scanID), zap.Error(err))
		}
	}

	return p.Jobs.UpdateScanProgress(ctx, scanID, 1.0)
}
