// Package gtm talks to Google Tag Manager: container lookup by public id,
// floodlight tag payload construction and batched tag creation with
// per-tag outcomes.
package gtm
