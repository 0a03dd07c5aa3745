// Package sources implements the video-side collaborators of the engine
// pipeline.
//
// The YouTube implementation is split by responsibility:
//
//	youtube_innertube.go  Innertube types, endpoints and HTTP primitives
//	youtube_captions.go   watch-page caption listing and timedtext parsing
//	youtube_transcript.go ordered transcript strategies and TranscriptFetcher
//	youtube_meta.go       oEmbed title/author lookup
package sources
