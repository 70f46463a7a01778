// Package blynk integrates with the Blynk cloud IoT platform.
//
// The cloud is the system of record for which devices exist; this
// package keeps the in-memory store aligned with it.
//
//	Client  two HTTP calls: fetch the device list, push settings
//	Mapper  raw camelCase records -> typed internal devices
//	Poller  fixed-interval fetch feeding Store.Refresh
//
// A failed fetch never clears the store: the dashboard keeps serving
// the last-known-good snapshot and the health endpoint reports the
// sync as degraded until a fetch succeeds.
//
// With no token configured the poller is simply not started and the
// system runs from the seed file alone.
package blynk
