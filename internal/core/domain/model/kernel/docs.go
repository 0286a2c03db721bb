// Package kernel holds the shared value objects of the reconciler domain.
//
// UUID identifies orders and scheduled tasks. Its zero value is invalid, so a
// UUID that skipped NewUUID, UUIDFromString, UUIDFromBytes or UUIDFromGoogle
// is caught by Validate before it reaches storage.
package kernel
