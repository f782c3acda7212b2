// Package policy makes the decisions that determine the
// characteristics of a regional, incrementally collected heap:
//
//   * how many young regions to allocate into before the next pause,
//     balancing a pause time goal against configured bounds.
//   * when to arm a concurrent marking cycle, driven by an adaptively
//     recomputed old generation occupancy threshold.
//   * which old regions to evacuate during a mixed pause, chosen from
//     an ordered candidate pool under a remaining time budget.
//
// The package is a library consumed by the surrounding heap runtime.
// All state transitions and sample ingestion happen at pause
// boundaries under the runtime's pause serialization, only the scalar
// queries used by the allocation path, Youngtargetlength and friends,
// are safe to call cross-thread.
package policy
