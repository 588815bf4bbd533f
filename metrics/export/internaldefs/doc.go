// Package internaldefs exposes stable metric name and label definitions
// shared by exporter implementations.
//
// Counter and histogram definitions live here so the Prometheus and OTel
// exporters report identical metric names and bucket boundaries. Changes to
// definitions in this package affect all exporters simultaneously.
package internaldefs
