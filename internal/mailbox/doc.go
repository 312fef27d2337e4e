// Package mailbox retrieves message batches from the Gmail API.
//
// A Client is scoped to a single opaque bearer token supplied by the
// caller. FetchMessages performs one list call followed by a concurrent
// detail fetch per message id, and reduces each detail record to a flat
// Message (id, subject, from, snippet). Detail failures are isolated:
// the batch returns the messages that could be fetched, in list order,
// together with the ids that failed.
package mailbox
