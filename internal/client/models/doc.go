// Package models defines the data exchanged with the screening service:
// scan records, prediction results and body locations.
package models
