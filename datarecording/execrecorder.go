package datarecording

import (
	"os"
	"strings"
	"time"
)

const timeFormat = "2006-01-02 15:04:05.000000000"

// One property of the recording process, stored in the exec_info table.
type execInfo struct {
	Property string
	Value    string
}

// execRecorder captures how the recording process was launched so that a
// database can later be traced back to the run that produced it.
type execRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []execInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		tableName: "exec_info",
		recorder:  recorder,
	}

	e.recorder.CreateTable(e.tableName, execInfo{})

	return e
}

// Start captures the launch time, the command line, and the working
// directory.
func (e *execRecorder) Start() {
	startTime := time.Now().Format(timeFormat)
	e.entries = append(e.entries, execInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.entries = append(e.entries, execInfo{"Command", cmd})

	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.entries = append(e.entries, execInfo{"Working Directory", wd})
}

// End appends the finish time and persists everything captured so far.
func (e *execRecorder) End() {
	endTime := time.Now().Format(timeFormat)
	e.entries = append(e.entries, execInfo{"End Time", endTime})

	for _, entry := range e.entries {
		e.recorder.InsertData(e.tableName, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
