package plot

// Stats holds request statistics
type Stats struct {
	TotalRequests    int
	CompileErrors    int
	EvaluationErrors int
	InvalidModes     int
	GapSamples       int
	RequestsByMode   map[string]int
}

func newStats() Stats {
	return Stats{RequestsByMode: make(map[string]int)}
}

func (e *Engine) record(mode Mode, outcome string, gaps int) {
	e.statsMutex.Lock()
	defer e.statsMutex.Unlock()

	e.stats.TotalRequests++
	e.stats.GapSamples += gaps
	switch outcome {
	case OutcomeCompileError:
		e.stats.CompileErrors++
	case OutcomeEvaluationError:
		e.stats.EvaluationErrors++
	case OutcomeInvalidMode:
		e.stats.InvalidModes++
		return
	}
	e.stats.RequestsByMode[mode.String()]++
}

// Stats returns a copy of the request statistics.
func (e *Engine) Stats() Stats {
	e.statsMutex.Lock()
	defer e.statsMutex.Unlock()

	stats := e.stats
	stats.RequestsByMode = make(map[string]int, len(e.stats.RequestsByMode))
	for k, v := range e.stats.RequestsByMode {
		stats.RequestsByMode[k] = v
	}
	return stats
}
