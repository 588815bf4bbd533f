// Package prometheus renders portalauth metrics in Prometheus text
// exposition format.
//
// The exporter is pull-based: it reads a metrics snapshot on every render
// and holds no state of its own, so it can be created and discarded freely.
package prometheus
