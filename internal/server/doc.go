// Package server provides the HTTP surfaces of mailsift: the JSON API
// for the retrieve and classify operations, Kubernetes-style health
// endpoints, and a dedicated metrics server for Prometheus scraping.
package server
