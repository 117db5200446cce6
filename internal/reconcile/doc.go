// Package reconcile maps an RFD's current state to the correct
// discussion-side effect: create a chat room for it, or post a change notice
// into the one it already has.
//
// # Decision Table
//
// The action is decided from three inputs: the event type, whether the
// incoming record carries a discussion reference, and whether the store
// already holds a mapping for the record id.
//
//	created + reference          -> already reconciled, return it verbatim
//	created + stored mapping     -> return the stored reference (lost-response retry)
//	created + neither            -> create
//	updated + neither            -> create
//	updated + stored mapping     -> update, using the stored reference
//	updated + reference          -> update, using the incoming reference
//
// # Idempotency
//
// Retried or re-ordered deliveries must never create two rooms for one
// record. The store's keyed upsert plus the store-presence check above is the
// serialization point; a per-record-id lock makes the check-then-create
// window atomic within the process, so concurrent deliveries for the same
// record serialize instead of racing.
//
// # Failure Policy
//
// Failures before a room exists are fatal and propagate. Once the room
// exists, cosmetic side effects (description, membership, intro message) are
// logged and swallowed so a retried delivery never re-attempts an
// irrecoverable step.
package reconcile
