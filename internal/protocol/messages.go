package protocol

// Boundary snapshots handed to host bindings. Field names mirror the config
// record bindings send field-by-name; see schemas/ for the JSON contracts.

type StatusMsg struct {
	PredatorCount int  `json:"predatorCount"`
	PreyCount     int  `json:"preyCount"`
	CurrentStep   int  `json:"currentStep"`
	IsRunning     bool `json:"isRunning"`
	IsPaused      bool `json:"isPaused"`
}

type ResultMsg struct {
	FinalPredatorCount  int     `json:"finalPredatorCount"`
	FinalPreyCount      int     `json:"finalPreyCount"`
	NormalizedPreyCount float64 `json:"normalizedPreyCount"`
	ExecutionTimeMs     int64   `json:"executionTimeMs"`
	TimeSteps           int     `json:"timeSteps"`
	PredatorHistory     []int   `json:"predatorHistory"`
	PreyHistory         []int   `json:"preyHistory"`
}

// ErrorMsg is how boundary failures serialize.
type ErrorMsg struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
