package engine

// --- Tool input types ---

type SummarizeURLInput struct {
	URL         string   `json:"url" jsonschema:"Video or web page URL to summarize (a bare 11-char video id also works)"`
	Provider    string   `json:"provider,omitempty" jsonschema:"LLM provider: groq, openai, gemini, anthropic, ollama (default: server setting)"`
	Model       string   `json:"model,omitempty" jsonschema:"Model name (default: server setting). Groq models: gemma2-9b-it, llama-3.3-70b-versatile"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"Sampling temperature in [0, 1] (default: 0.3)"`
	ChunkSize   int      `json:"chunk_size,omitempty" jsonschema:"Chunk size in characters (default: 2000)"`
	Overlap     *int     `json:"overlap,omitempty" jsonschema:"Chunk overlap in characters, smaller than chunk_size (default: 100)"`
	Transcript  bool     `json:"include_transcript,omitempty" jsonschema:"Also return the fetched transcript or page text"`
}

type TranscriptInput struct {
	URL       string `json:"url" jsonschema:"Video or web page URL"`
	MaxLength int    `json:"max_length,omitempty" jsonschema:"Max characters of content (default: no limit)"`
}

type ClassifyInput struct {
	URL string `json:"url" jsonschema:"URL to classify"`
}

// --- Tool output types ---

type SummarizeURLOutput struct {
	URL        string `json:"url"`
	Kind       string `json:"kind"`
	VideoID    string `json:"video_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
	Language   string `json:"language,omitempty"`
	Chunks     int    `json:"chunks,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`      // user-facing message
	ErrorKind  string `json:"error_kind,omitempty"` // ErrorKind value
}

type TranscriptOutput struct {
	URL       string            `json:"url"`
	Kind      string            `json:"kind"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Truncated bool              `json:"truncated"`
}

type ClassifyOutput struct {
	URL     string `json:"url"`
	Kind    string `json:"kind"`
	VideoID string `json:"video_id,omitempty"`
}

// Request builds a SummaryRequest from the tool input, filling unset fields
// from the configured defaults.
func (in SummarizeURLInput) Request() SummaryRequest {
	req := DefaultRequest(in.URL)
	if in.Provider != "" {
		req.Model.Provider = in.Provider
		if in.Model == "" && in.Provider != cfg.LLMProvider {
			req.Model.Name = DefaultModel(in.Provider)
		}
	}
	if in.Model != "" {
		req.Model.Name = in.Model
	}
	if in.Temperature != nil {
		req.Model.Temperature = *in.Temperature
	}
	if in.ChunkSize != 0 {
		req.ChunkSize = in.ChunkSize
	}
	if in.Overlap != nil {
		req.Overlap = *in.Overlap
	}
	return req
}

// NewSummarizeURLOutput renders a SummaryResult for tool and CLI output.
func NewSummarizeURLOutput(url string, res SummaryResult, withTranscript bool) SummarizeURLOutput {
	src := Classify(url)
	doc := res.Document
	out := SummarizeURLOutput{
		URL:     src.URL,
		Kind:    src.Kind.String(),
		VideoID: src.VideoID,
		Title:   doc.Meta(MetaTitle),
		Author:  doc.Meta(MetaAuthor),
	}
	if res.Err != nil {
		out.Error = res.Err.UserMessage()
		out.ErrorKind = string(res.Err.Kind)
		return out
	}
	out.Language = doc.Meta(MetaLanguage)
	out.Chunks = res.Chunks
	out.Summary = res.Text
	if withTranscript {
		out.Transcript = doc.Content
	}
	return out
}
