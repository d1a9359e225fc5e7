package eas

import (
	"strconv"

	"github.com/guimove/eas-sim/internal/task"
)

func newFakeTask(cycles int64) *task.Task {
	return task.New(cycles, "user-synthetic")
}

func cpuName(i int) string {
	return "cpu" + strconv.Itoa(i)
}
