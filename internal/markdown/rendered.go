package markdown

import "encoding/json"

// RenderedContent is the serialized output of Render. Callers treat it as
// opaque: it is carried in page props and handed to component hydration.
type RenderedContent struct {
	output string
}

type renderedJSON struct {
	RenderedOutput string `json:"renderedOutput"`
}

// IsZero reports whether nothing was rendered.
func (rc RenderedContent) IsZero() bool { return rc.output == "" }

// Markup exposes the rendered HTML to the hydration step.
func (rc RenderedContent) Markup() string { return rc.output }

func (rc RenderedContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(renderedJSON{RenderedOutput: rc.output})
}

func (rc *RenderedContent) UnmarshalJSON(data []byte) error {
	var v renderedJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	rc.output = v.RenderedOutput
	return nil
}
