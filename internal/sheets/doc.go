// Package sheets reads and writes the Floody spreadsheet layout: five
// fixed sections (activities, default tags, publisher tags, custom
// variables, activity groups) plus the developer-metadata binding to a
// floodlight configuration.
package sheets
