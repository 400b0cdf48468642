// internal/status/snapshot.go
package status

// Snapshot is a point-in-time copy of every status register.
// Index i of Sequences / Jobs is the result of sequence / job id i.
// It contains no logic and no memory of the past.
type Snapshot struct {
	Driver    DriverStatus
	Mode      AsyncMode
	Sequences []SeqResult
	Jobs      []JobResult
}
