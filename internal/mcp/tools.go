package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Argument names mirror the CLI flags so agents and
// humans share one vocabulary.

var searchToolDef = mcp.NewTool("journal_search",
	mcp.WithDescription("Search journal transcripts for a term. The term is a case-insensitive regular expression; matches come back newest first with a snippet per entry."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Search term or regular expression"),
	),
	mcp.WithNumber("year",
		mcp.Description("Restrict the search to one year, e.g. 2026"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum matches to return (default 20, max 100)"),
	),
	mcp.WithBoolean("verbose",
		mcp.Description("Include surrounding lines of context in each snippet"),
	),
	mcp.WithNumber("context",
		mcp.Description("Context lines either side of a verbose match"),
	),
	mcp.WithBoolean("include_audio",
		mcp.Description("Resolve each match's audio file path"),
	),
)

var fetchToolDef = mcp.NewTool("journal_fetch",
	mcp.WithDescription("Fetch one journal entry's full transcript document by key. Bare keys (e.g. AUG_25_14.30) are resolved newest-first across years; year-qualified keys (2026/AUG_25_14.30) are exact."),
	mcp.WithString("key",
		mcp.Required(),
		mcp.Description("Entry key, bare or year-qualified"),
	),
)

var listToolDef = mcp.NewTool("journal_list",
	mcp.WithDescription("List journal entries newest first with date, duration, size, word count, and sync state."),
	mcp.WithNumber("year",
		mcp.Description("Restrict the listing to one year"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum entries to return (default 20, max 200)"),
	),
)

var statusToolDef = mcp.NewTool("journal_status",
	mcp.WithDescription("Report the journal's sync overview: entry counts, synced and unsynced entries, and any disagreement between the manifest and the files on disk."),
)
