package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the embedded default
	// or an error when there is none.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// Each template is rendered with text/template; the available fields are
// listed per prompt.
const (
	// PromptExpression extracts marketing expressions. Fields: .Text
	PromptExpression = "expression"

	// PromptParameter extracts and groups named entities. Fields: .Text
	PromptParameter = "parameter"

	// PromptTemplate replaces known values with category placeholders.
	// Fields: .Segment, .Parameters
	PromptTemplate = "template"

	// PromptCategorize picks one routing category. Fields: .Keyword, .Categories
	PromptCategorize = "categorize"

	// PromptGenerate writes the manuscript. Fields: .Words, .Sentences,
	// .Expressions, .Parameters, .Instructions, .Reference
	PromptGenerate = "generate"

	// PromptReference is a free-form reference document appended to generation.
	PromptReference = "reference"
)
