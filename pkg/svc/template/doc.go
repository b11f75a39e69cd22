// Package template holds the built-in default payloads of the bootstrap steps.
//
// Every function is pure: the same plan and step name always produce the same
// manifest text or default chart values. Manifests are embedded text/template
// files rendered against the plan.
package template
