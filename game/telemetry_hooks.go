package game

import (
	"log/slog"

	"github.com/pthm-cable/evogarden/telemetry"
)

// ReportSink consumes aggregate records. Implementations must not hold on to
// simulation state; everything they receive is a copy.
type ReportSink interface {
	OnReport(r telemetry.Report) error
	OnExtinction(e telemetry.Extinction) error
	OnIntervention(iv telemetry.Intervention) error
}

// csvSink adapts an OutputManager to ReportSink.
type csvSink struct{ om *telemetry.OutputManager }

func (c csvSink) OnReport(r telemetry.Report) error         { return c.om.WriteReport(r) }
func (c csvSink) OnExtinction(e telemetry.Extinction) error { return c.om.WriteExtinction(e) }
func (c csvSink) OnIntervention(iv telemetry.Intervention) error {
	return c.om.WriteIntervention(iv)
}

// storeSink adapts a Store to ReportSink.
type storeSink struct{ st *telemetry.Store }

func (s storeSink) OnReport(r telemetry.Report) error { return s.st.InsertReport(r) }
func (s storeSink) OnExtinction(e telemetry.Extinction) error {
	return s.st.InsertExtinctions([]telemetry.Extinction{e})
}
func (s storeSink) OnIntervention(iv telemetry.Intervention) error {
	return s.st.InsertIntervention(iv)
}

// emitTelemetry writes a report row on interval ticks and flushes the event
// window when it is due.
func (s *Simulation) emitTelemetry() {
	if s.interval > 0 && s.tick%s.interval == 0 {
		s.emitReport(s.Report())
	}
	if s.bookmarkDetector != nil && s.collector.ShouldFlush(s.tick) {
		s.flushWindow()
	}
}

// Report aggregates the current live population.
func (s *Simulation) Report() telemetry.Report {
	return telemetry.NewReport(s.tick, s.ctx.Nutrition.Total(), s.samples())
}

func (s *Simulation) samples() []telemetry.Sample {
	agents := s.liveSet()
	out := make([]telemetry.Sample, 0, len(agents))
	for _, a := range agents {
		out = append(out, telemetry.Sample{
			Species: a.Org.Species,
			Sex:     a.Org.Sex,
			Energy:  a.Org.Energy,
			Genes:   *a.Genes,
		})
	}
	return out
}

func (s *Simulation) emitReport(r telemetry.Report) {
	if s.logStats {
		slog.Info("report", "row", r)
	}
	for _, sink := range s.sinks {
		if err := sink.OnReport(r); err != nil {
			slog.Error("failed to write report", "tick", r.Tick, "error", err)
		}
	}

	for _, e := range r.Extinctions() {
		slog.Info("extinction", "event", e)
		for _, sink := range s.sinks {
			if err := sink.OnExtinction(e); err != nil {
				slog.Error("failed to write extinction", "tick", e.Tick, "error", err)
			}
		}
	}
}

func (s *Simulation) emitIntervention(iv telemetry.Intervention) {
	slog.Info("intervention", "event", iv)
	for _, sink := range s.sinks {
		if err := sink.OnIntervention(iv); err != nil {
			slog.Error("failed to write intervention", "kind", string(iv.Kind), "error", err)
		}
	}
}

// flushWindow closes the current stats window and checks for bookmarks.
func (s *Simulation) flushWindow() {
	stats := s.collector.Flush(s.tick, s.ctx.Nutrition.Total(), s.samples())

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
	}
	if err := s.outputManager.WriteWindow(stats); err != nil {
		slog.Error("failed to write window stats", "error", err)
	}

	if s.perfCollector != nil {
		perfStats := s.perfCollector.Stats()
		if s.logStats {
			perfStats.LogStats()
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
