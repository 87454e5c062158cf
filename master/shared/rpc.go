package shared

import (
	"log/slog"

	"fnplot.com/master/plot"
)

// Visualizer defines the methods required by PlotRPC
type Visualizer interface {
	VisualizeNamed(text, modeName string) (*plot.Curve, error)
	Stats() plot.Stats
}

// Drawer receives every curve computed over RPC
type Drawer interface {
	Draw(curve *plot.Curve)
}

// PlotRPC handles RPC calls from workers
type PlotRPC struct {
	engine Visualizer
	drawer Drawer
	logger *slog.Logger
}

// NewPlotRPC creates a new PlotRPC instance. drawer may be nil.
func NewPlotRPC(engine Visualizer, drawer Drawer, logger *slog.Logger) *PlotRPC {
	return &PlotRPC{
		engine: engine,
		drawer: drawer,
		logger: logger,
	}
}

// Visualize samples a function for a worker
func (p *PlotRPC) Visualize(args *VisualizeArgs, reply *VisualizeReply) error {
	curve, err := p.engine.VisualizeNamed(args.Function, args.Type)
	if err != nil {
		p.logger.Info("RPC visualize rejected", "worker", args.WorkerName, "function", args.Function, "type", args.Type, "error", err)
		return err
	}
	if p.drawer != nil {
		p.drawer.Draw(curve)
	}
	p.logger.Debug("RPC visualize served", "worker", args.WorkerName, "mode", curve.Mode)

	reply.Equation = curve.Label
	reply.Label = curve.SeriesName()
	reply.XValues = make([]float64, len(curve.Samples))
	reply.YValues = make([]float64, len(curve.Samples))
	reply.Gaps = make([]bool, len(curve.Samples))
	for i, s := range curve.Samples {
		reply.XValues[i] = s.X
		reply.YValues[i] = s.Y
		reply.Gaps[i] = s.Gap
	}
	return nil
}

// Stats returns the engine statistics
func (p *PlotRPC) Stats(args *StatsArgs, reply *StatsReply) error {
	stats := p.engine.Stats()
	reply.TotalRequests = stats.TotalRequests
	reply.CompileErrors = stats.CompileErrors
	reply.EvaluationErrors = stats.EvaluationErrors
	reply.InvalidModes = stats.InvalidModes
	reply.GapSamples = stats.GapSamples
	reply.RequestsByMode = stats.RequestsByMode
	return nil
}

// Curve rebuilds the sampled curve from a reply.
func (r *VisualizeReply) Curve(text string, mode plot.Mode) *plot.Curve {
	curve := &plot.Curve{
		Mode:    mode,
		Text:    text,
		Label:   r.Equation,
		Samples: make([]plot.Sample, len(r.XValues)),
	}
	for i := range r.XValues {
		curve.Samples[i] = plot.Sample{X: r.XValues[i], Y: r.YValues[i], Gap: r.Gaps[i]}
	}
	return curve
}
