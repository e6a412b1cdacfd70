// Package policy guards process-level side effects at call sites: process
// exit, forced halt, raw console access and stack dumps.
//
// Every guarded use is audited as a warning "<target> used at <file>:<line>"
// before the kill switch is consulted, so the trail survives a denial. With
// the kill switch on, the use is refused with a *DeniedError. Functions and
// types registered in Overrides are exempt from both.
package policy
