// Package server provides the HTTP surfaces of the assistant: the chat API
// (POST /api/chat plus health and capability endpoints), Kubernetes probe
// endpoints, and a dedicated Prometheus metrics server.
package server
