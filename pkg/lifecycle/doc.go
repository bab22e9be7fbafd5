// Package lifecycle implements the state machine that governs one form
// submission attempt.
//
//	Idle ──validate──▶ Validating ──reject──▶ Rejected ──settle──▶ Idle
//	                        │ └──abort──▶ Idle
//	                        └──dispatch──▶ Submitting ──resolve──▶ Succeeded ──complete──▶ Idle
//	                                            │                     └──redirect──▶ Redirected
//	                                            └──fail──▶ Failed ──complete──▶ Idle
//
// Redirected accepts validate like Idle does, so a form that was told to
// navigate away can still be submitted again by its host.
//
// The machine is safe for concurrent use. Listeners run synchronously after
// each transition, while the machine lock is held; they must not fire events.
package lifecycle
