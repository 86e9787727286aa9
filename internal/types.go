package internal

import "time"

// JobStatus values stored in the job history.
const (
	JobRunning   = "running"
	JobCompleted = "completed"
	JobCancelled = "cancelled"
	JobFailed    = "failed"
)

// JobRecord describes one translation run. It never holds document text.
type JobRecord struct {
	ID         string    `json:"id"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	TargetLang string    `json:"target_lang"`
	Genre      string    `json:"genre"`
	Models     []string  `json:"models"`
	Chunks     int       `json:"chunks"`
	Failed     int       `json:"failed"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// AttemptRecord is one model call for one chunk.
type AttemptRecord struct {
	JobID      string        `json:"job_id"`
	Chunk      int           `json:"chunk"`
	Model      string        `json:"model"`
	Outcome    string        `json:"outcome"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
