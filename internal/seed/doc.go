// Package seed loads the initial device, scene and automation state
// from a YAML file at startup.
//
// The seed file is the only persistence in the system: the cloud owns
// live device state, everything else is in-memory. Records go through
// the same constructors and validators as API input, and one bad
// record fails the whole load.
package seed
