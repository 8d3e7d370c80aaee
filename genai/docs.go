// Package genai backs the text and image generation helpers exposed to bid
// workbooks. Responses can be cached so repeated spreadsheet recalculation
// does not re-bill identical prompts.
package genai //import "go.openbid.build/genai"
