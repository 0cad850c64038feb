// Package connectors holds the inbound data feeds for the index.
// Each connector turns an external source into domain items and hands
// them to the ingestion pipeline. The spool connector is the built-in
// one; exporters for specific apps live outside this repository and
// talk to it through the batch file format.
package connectors
