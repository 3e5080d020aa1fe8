package pipeline

import "fmt"

type Stage string

const (
	StageLoad      Stage = "load"
	StageDiarize   Stage = "diarize"
	StageRecognize Stage = "recognize"
	StageRender    Stage = "render"
	StageWrite     Stage = "write"
)

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
