// Package services implements the driving port interfaces.
// Services contain the analysis pipeline logic and orchestrate
// calls to driven ports (AI providers, document store, corpus reader).
//
// Services are pure Go with no CGO or external dependencies.
package services
