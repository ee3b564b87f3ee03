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
//   - RecipeProvider: Supplies declarative recipes by id
//   - RendererRegistry: Maps visual types to renderers
//   - ArtifactStore: Document and metadata persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Render history. Without it, renders are not recorded.
//   - NarrativeService: Narrative generation. Without it, deterministic
//     fallback sentences are used.
//   - PromptStore: Customisable narrative prompts. Without it, embedded defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or renderer package
package driven
