package driven

// PromptStore provides access to narrative prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptNarrativeSystem is the system prompt for every narrative request.
	// This prompt has no format placeholders.
	PromptNarrativeSystem = "narrative_system"

	// PromptExecutiveSummary asks for the headline summary.
	// The template expects a single %s placeholder for the scored context block.
	PromptExecutiveSummary = "executive_summary"

	// PromptChapterSummary asks for a one-chapter summary.
	// The template expects a single %s placeholder for the scored context block.
	PromptChapterSummary = "chapter_summary"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
