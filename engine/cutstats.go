package engine

import "github.com/rs/zerolog"

// CutStatistics collects counts for each cutoff mechanism in one search.
type CutStatistics struct {
	TTCutoffs        uint64
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
	Extensions       uint64
}

func (cs CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("tt_cutoffs", cs.TTCutoffs).
		Uint64("beta_cutoffs", cs.BetaCutoffs).
		Uint64("q_standpat_cutoffs", cs.QStandPatCutoffs).
		Uint64("q_beta_cutoffs", cs.QBetaCutoffs).
		Uint64("extensions", cs.Extensions)
}
