// Package translate converts cluster-native status representations into
// the uniform structs.Event the core and its callers deal in.
package translate

import "github.com/nattofriends/task-processing/structs"

// StatusTranslator turns one cluster-native status update into an Event.
// The execution framework calls it once per StatusUpdate callback; the
// retry executor never sees raw status updates, only the Events this
// produces.
type StatusTranslator interface {
	Translate(raw interface{}) (structs.Event, error)
}
