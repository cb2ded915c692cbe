// Package gtmrequest implements the tag-manager approval workflow: a
// requester captures flagged sheet activities into a stored request, and a
// requester or named approver later approves (pushing tags into the
// container) or rejects it. A request can be actioned exactly once.
//
// The service depends on the Store interface defined in this package;
// implementations live in repository/postgres and in-memory test doubles.
package gtmrequest
