package shared

// VisualizeArgs are passed to the Visualize method
type VisualizeArgs struct {
	WorkerName string
	Function   string
	Type       string
}

// VisualizeReply is returned from a Visualize method call. YValues[i] is
// meaningless where Gaps[i] is true.
type VisualizeReply struct {
	Equation string
	Label    string
	XValues  []float64
	YValues  []float64
	Gaps     []bool
}

// StatsArgs are passed to the Stats method
type StatsArgs struct {
	WorkerName string
}

// StatsReply is returned from a Stats method call
type StatsReply struct {
	TotalRequests    int
	CompileErrors    int
	EvaluationErrors int
	InvalidModes     int
	GapSamples       int
	RequestsByMode   map[string]int
}
