// Package schedule implements the scheduling policy: resolving a concrete
// start slot from the current time and a wall-clock hint, and filling
// defaults on partially specified meeting requests.
//
// All functions are pure; callers inject a Clock for deterministic tests.
package schedule
