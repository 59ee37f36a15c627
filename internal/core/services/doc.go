// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Sampling and ranking read immutable
// model artifacts and never modify them.
package services
