package search

// DefaultSynonyms is the production synonym table for the semantic strategy.
// Query tokens are expanded through this table before keyword matching, so
// "check the build" can reach tools described with "verify" or "validate".
//
// The table is a calibrated constant: override it via Config.Synonyms when
// the evaluation harness suggests different expansions for a catalog.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"check":    {"verify", "validate", "gate", "lint"},
		"verify":   {"check", "validate", "gate"},
		"validate": {"verify", "check"},
		"find":     {"search", "discover", "locate", "lookup"},
		"search":   {"find", "query", "lookup"},
		"fetch":    {"get", "read", "download", "retrieve"},
		"get":      {"fetch", "read", "retrieve"},
		"read":     {"fetch", "open", "view"},
		"write":    {"save", "create", "edit"},
		"create":   {"make", "new", "add", "write"},
		"delete":   {"remove", "drop", "clean"},
		"remove":   {"delete", "drop"},
		"run":      {"execute", "start", "launch"},
		"execute":  {"run", "invoke", "call"},
		"start":    {"begin", "launch", "run"},
		"stop":     {"halt", "kill", "cancel"},
		"build":    {"compile", "make", "assemble"},
		"test":     {"check", "verify", "validate"},
		"fix":      {"repair", "patch", "resolve"},
		"show":     {"display", "view", "list"},
		"list":     {"enumerate", "show", "all"},
		"screen":   {"screenshot", "capture", "display"},
		"capture":  {"screenshot", "record", "grab"},
		"browse":   {"navigate", "web", "browser"},
		"web":      {"browser", "http", "url", "internet"},
		"git":      {"commit", "branch", "repository", "repo"},
		"commit":   {"git", "save", "checkpoint"},
		"file":     {"document", "path", "directory"},
		"image":    {"picture", "screenshot", "photo"},
		"doc":      {"document", "documentation", "docs"},
		"issue":    {"ticket", "bug", "task"},
		"plan":     {"design", "outline", "decompose"},
	}
}
