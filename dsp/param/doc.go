// Package param declares effect parameters and validates user-supplied
// values against them.
//
// Every effect publishes an ordered list of [Spec] values. [Build] turns a
// flat name→value map into a [Set], filling defaults for missing names and
// rejecting unknown names or out-of-range values. Building is all-or-nothing:
// on error no Set is returned.
package param
