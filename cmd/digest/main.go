// digest summarizes a video or web page from the command line using the same
// pipeline as the MCP server.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_digest/internal/engine"
	"github.com/anatolykoptev/go_digest/internal/toolutil"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errSummaryFailed marks a run whose result was reported but unsuccessful.
var errSummaryFailed = errors.New("summary failed")

func main() {
	_ = godotenv.Load()
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errSummaryFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type options struct {
	provider       string
	model          string
	temperature    float64
	chunkSize      int
	overlap        int
	showTranscript bool
	jsonOut        bool
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "digest",
		Short:         "Summarize YouTube videos and web pages with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newSummarizeCommand())
	cmd.AddCommand(newTranscriptCommand())
	cmd.AddCommand(newClassifyCommand())
	return cmd
}

func newSummarizeCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "summarize <url>",
		Short: "Fetch a video transcript or page text and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := initPipeline()
			if err != nil {
				return err
			}
			in := engine.SummarizeURLInput{
				URL:        toolutil.NormURL(args[0]),
				Provider:   opts.provider,
				Model:      opts.model,
				ChunkSize:  opts.chunkSize,
				Transcript: opts.showTranscript,
			}
			if cmd.Flags().Changed("temperature") {
				in.Temperature = &opts.temperature
			}
			if cmd.Flags().Changed("overlap") {
				in.Overlap = &opts.overlap
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res := p.SummarizeURL(ctx, in.Request())
			out := engine.NewSummarizeURLOutput(in.URL, res, opts.showTranscript)
			if err := render(cmd, out, opts.jsonOut); err != nil {
				return err
			}
			if !res.OK() {
				return errSummaryFailed
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.provider, "provider", "", "LLM provider: groq, openai, gemini, anthropic, ollama")
	f.StringVar(&opts.model, "model", "", "Model name (groq: "+strings.Join(engine.GroqModels, ", ")+")")
	f.Float64Var(&opts.temperature, "temperature", 0.3, "Sampling temperature in [0, 1]")
	f.IntVar(&opts.chunkSize, "chunk-size", 0, "Chunk size in characters (default from CHUNK_SIZE)")
	f.IntVar(&opts.overlap, "overlap", 0, "Chunk overlap in characters (default from CHUNK_OVERLAP)")
	f.BoolVar(&opts.showTranscript, "show-transcript", false, "Print the fetched transcript after the summary")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")
	return cmd
}

func newTranscriptCommand() *cobra.Command {
	var maxLen int
	cmd := &cobra.Command{
		Use:   "transcript <url>",
		Short: "Print the transcript or readable text behind a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := initPipeline()
			if err != nil {
				return err
			}
			doc, err := p.FetchDocument(cmd.Context(), toolutil.NormURL(args[0]))
			if err != nil {
				var e *engine.Error
				if errors.As(err, &e) {
					return errors.New(e.UserMessage())
				}
				return err
			}
			content, _ := toolutil.Clip(doc.Content, maxLen)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
			return err
		},
	}
	cmd.Flags().IntVar(&maxLen, "max-length", 0, "Max characters to print (0 = all)")
	return cmd
}

func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <url>",
		Short: "Report whether a URL is a video or a generic page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := engine.Classify(toolutil.NormURL(args[0]))
			return writeJSON(cmd, engine.ClassifyOutput{URL: src.URL, Kind: src.Kind.String(), VideoID: src.VideoID})
		},
	}
}

func initPipeline() (*engine.Pipeline, error) {
	return toolutil.InitEngine(engine.ConfigFromEnv(), env.Str("WEBSHARE_API_KEY", ""))
}

func render(cmd *cobra.Command, out engine.SummarizeURLOutput, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, out)
	}
	w := cmd.OutOrStdout()
	if out.Error != "" {
		w = cmd.ErrOrStderr()
	}
	_, err := fmt.Fprint(w, toolutil.FormatMarkdown(out))
	return err
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
