// Package killer executes controlled termination of a single process or
// a related group with a graceful-then-forced escalation protocol.
package killer

import (
	"log"
	"time"

	"procview/models"
	"procview/snapshot"
)

// Killer signals processes through the snapshot provider. Operations
// are not cancellable once started; a caller disconnecting mid-sequence
// does not abort in-flight signal delivery.
type Killer struct {
	provider snapshot.Provider
	grace    time.Duration
	sleep    func(time.Duration)
}

// New builds a Killer with the given grace window between the terminate
// signal and the forced-kill escalation.
func New(provider snapshot.Provider, grace time.Duration) *Killer {
	return &Killer{provider: provider, grace: grace, sleep: time.Sleep}
}

// Kill terminates a single process. Success is reported as soon as the
// graceful signal is delivered; it does not wait for the process to exit.
func (k *Killer) Kill(pid int32) models.KillResult {
	proc, err := k.provider.Find(pid)
	if err != nil {
		return models.KillResult{PID: pid, Error: "Process not found"}
	}
	if err := proc.Terminate(); err != nil {
		return models.KillResult{PID: pid, Error: signalError(err)}
	}
	return models.KillResult{Success: true, PID: pid}
}

// KillGroup terminates a main process and its related set. Related pids
// are signaled first so killing the coordinator cannot orphan or
// respawn its children, then escalated after the grace window; the main
// pid goes through the same sequence last. A related pid that never
// resolved lands in FailedPIDs without failing the operation; an
// unresolvable main pid fails the whole operation.
func (k *Killer) KillGroup(mainPID int32, relatedPIDs []int32) models.GroupKillResult {
	killed := []int32{}
	failed := []int32{}

	for _, pid := range relatedPIDs {
		proc, err := k.provider.Find(pid)
		if err != nil {
			failed = append(failed, pid)
			continue
		}
		if err := proc.Terminate(); err != nil {
			failed = append(failed, pid)
			continue
		}
		killed = append(killed, pid)
	}

	if len(killed) > 0 {
		k.sleep(k.grace)
	}

	// Escalate whatever survived the grace window. A pid that vanished
	// in the meantime already terminated, which is success.
	for _, pid := range killed {
		proc, err := k.provider.Find(pid)
		if err != nil {
			continue
		}
		if running, err := proc.IsRunning(); err == nil && running {
			if err := proc.Kill(); err != nil {
				log.Printf("Force kill of %d failed: %v", pid, err)
			}
		}
	}

	main, err := k.provider.Find(mainPID)
	if err != nil {
		return models.GroupKillResult{MainPID: mainPID, Error: "Main process not found"}
	}
	if err := main.Terminate(); err != nil {
		return models.GroupKillResult{MainPID: mainPID, Error: signalError(err)}
	}
	k.sleep(k.grace)
	if running, err := main.IsRunning(); err == nil && running {
		if err := main.Kill(); err != nil {
			log.Printf("Force kill of %d failed: %v", mainPID, err)
		}
	}

	killed = append([]int32{mainPID}, killed...)
	return models.GroupKillResult{
		Success:     true,
		MainPID:     mainPID,
		KilledPIDs:  killed,
		FailedPIDs:  failed,
		TotalKilled: len(killed),
	}
}

func signalError(err error) string {
	switch {
	case snapshot.IsNotFound(err):
		return "Process not found"
	case snapshot.IsAccessDenied(err):
		return "Access denied"
	default:
		return err.Error()
	}
}
