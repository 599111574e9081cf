package vmcore

import (
	"robotbattle/internal/arenaquery"
	"robotbattle/internal/isa"
)

// Component opcodes (rotate/drive/fire/scan/attack) dispatch on the
// currently selected component and, when it doesn't match the opcode's
// required component, still consume their cycle cost but commit no state
// change and emit no intent (spec.md §4.2 "Component dispatch").

func (vm *VM) selectedComponent() arenaquery.ComponentID {
	return arenaquery.ComponentID(vm.Regs[isa.RegComponent])
}

func (vm *VM) commitRotate(delta float64) *arenaquery.Intent {
	switch vm.selectedComponent() {
	case arenaquery.ComponentDrive:
		vm.Drive.DesiredDirection = vm.Drive.Direction + delta
	case arenaquery.ComponentTurret:
		vm.Turret.DesiredDirection = vm.Turret.Direction + delta
	default:
		return nil
	}
	return &arenaquery.Intent{Component: vm.selectedComponent(), Kind: arenaquery.IntentRotate, Value: delta}
}

func (vm *VM) commitDrive(target float64) *arenaquery.Intent {
	if vm.selectedComponent() != arenaquery.ComponentDrive {
		return nil
	}
	vm.Drive.DesiredVelocity = target
	return &arenaquery.Intent{Component: arenaquery.ComponentDrive, Kind: arenaquery.IntentDrive, Value: target}
}

func (vm *VM) commitFire(power float64) *arenaquery.Intent {
	if vm.selectedComponent() != arenaquery.ComponentTurret {
		return nil
	}
	if power < 0 {
		power = 0
	} else if power > 1 {
		power = 1
	}
	cost := vm.ComponentCfg.FirePowerCost * power
	if !vm.Turret.CanFire() || vm.Regs[isa.RegPower] < cost {
		return nil
	}
	vm.Regs[isa.RegPower] -= cost
	vm.Turret.Fire(vm.ComponentCfg)
	return &arenaquery.Intent{Component: arenaquery.ComponentTurret, Kind: arenaquery.IntentFire, Value: power}
}

func (vm *VM) commitScan() *arenaquery.Intent {
	if vm.selectedComponent() != arenaquery.ComponentTurret {
		return nil
	}
	if vm.Query != nil {
		res := vm.Query.Scan(vm.RobotID, vm.Regs[isa.RegPosX], vm.Regs[isa.RegPosY], vm.Turret.Direction,
			vm.ComponentCfg.ScanFOVDegrees, vm.ComponentCfg.ScanRange)
		if res.Found {
			vm.Turret.TargetDistance = res.Distance
			vm.Turret.TargetDirection = res.DirectionDeg
		} else {
			vm.Turret.TargetDistance = 0
			vm.Turret.TargetDirection = 0
		}
	}
	return &arenaquery.Intent{Component: arenaquery.ComponentTurret, Kind: arenaquery.IntentScan}
}

func (vm *VM) commitAttack() *arenaquery.Intent {
	if vm.selectedComponent() != arenaquery.ComponentTurret {
		return nil
	}
	return &arenaquery.Intent{Component: arenaquery.ComponentTurret, Kind: arenaquery.IntentAttack}
}
