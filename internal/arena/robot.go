package arena

import (
	"io"

	"robotbattle/internal/arenaquery"
	"robotbattle/internal/isa"
	"robotbattle/internal/vmcore"
)

// Robot bundles one robot's assembled program, its VM (which in turn
// mediates the Drive/Turret components by value), and its stable id — the
// order spec.md §4.4 ticks robots in.
type Robot struct {
	ID int
	VM *vmcore.VM
}

// newRobot constructs one robot's VM seeded per spec.md §5
// ("seeded from the match seed combined with robot id") and places it at
// the given starting pose.
func newRobot(id int, program *isa.Program, seed int64, cfg Config, query arenaquery.Query, observer io.Writer, x, y, headingDeg float64) *Robot {
	vm := vmcore.New(program, id, seed, query, cfg.Limits(), cfg.ComponentConfig(), observer)
	vm.SetPose(x, y)
	vm.Drive.Direction = headingDeg
	vm.Drive.DesiredDirection = headingDeg
	vm.Turret.Direction = headingDeg
	vm.Turret.DesiredDirection = headingDeg
	return &Robot{ID: id, VM: vm}
}
