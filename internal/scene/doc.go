// Package scene provides scene definitions and activation.
//
// A Scene is an ordered list of device targets; activating it imposes
// each target's status (and optional value) on the device store.
// Devices the scene does not name are never touched.
//
// Apply is the pure form of the transform, used where callers hold a
// device snapshot rather than the store. Engine.Activate is the
// effectful form: it mutates the store target by target, which
// publishes per-device state change events as usual, then broadcasts
// scene.activated to dashboard clients.
//
// The Registry is in-memory only; scenes come from the seed file and
// the API and do not survive a restart.
package scene
