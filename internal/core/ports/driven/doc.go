// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LLMService: Text completion against an AI provider
//   - DocumentStore: Named logical databases of JSON records
//   - CorpusReader: Loads a directory of text documents
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-editable prompt templates. Without it, embedded defaults are used.
//   - Pacer: Spaces consecutive AI calls. Without it, calls run back to back.
//   - UsageRecorder: Token accounting sink. Without it, usage is discarded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
