// Package intent classifies raw chat messages into a small set of intents
// using configurable keyword matching.
//
// Classification is deliberately deterministic and free of I/O so the
// routing policy can be tested and swapped without touching the assistant
// orchestrator.
package intent
