// Package floody holds the in-memory data model for one floodlight
// configuration sync: activities, activity groups, the deduplicated tag
// sections and the validation rules that guard platform writes.
//
// Everything here is pure data and pure functions. Platform and spreadsheet
// I/O live in internal/dcm and internal/sheets; this package must not
// import either.
package floody
