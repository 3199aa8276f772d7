package generation

// ModelConfig describes one generation backend variant. Configs are tried
// in priority order; AcceptsImage marks image-to-image capable models.
type ModelConfig struct {
	Provider     string
	Model        string
	AcceptsImage bool
	Width        int
	Height       int
}

// DefaultModelConfigs is the fixed fallback order: two image-to-image
// capable models, then a text-to-image model used without the input image.
func DefaultModelConfigs() []ModelConfig {
	return []ModelConfig{
		{Provider: "gemini", Model: "gemini-2.5-flash-image", AcceptsImage: true, Width: 1024, Height: 1024},
		{Provider: "openai", Model: "gpt-image-1", AcceptsImage: true, Width: 1024, Height: 1024},
		{Provider: "openai", Model: "dall-e-3", AcceptsImage: false, Width: 1024, Height: 1024},
	}
}

// DefaultPrompt describes the target rendering when the caller supplies none.
const DefaultPrompt = "Top-down photorealistic 3D render of this floor plan. " +
	"Keep walls, rooms and openings exactly where they are in the input geometry. " +
	"Realistic flooring, furniture and lighting. No text, labels or dimensions."
