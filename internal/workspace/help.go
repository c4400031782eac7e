package workspace

import (
	"embed"
)

//go:embed docs/*.md
var helpFS embed.FS

// helpTopics maps a help topic name to its Markdown source, matching
// the fixed set :help resolves against (spec SPEC_FULL §11.1). Any
// topic not in this set falls back to "" (the index document).
var helpTopics = loadHelpTopics()

func loadHelpTopics() map[string]string {
	names := []string{"navigate", "commands", "ranges", "clipboard"}
	topics := make(map[string]string, len(names)+1)
	for _, name := range names {
		b, err := helpFS.ReadFile("docs/" + name + ".md")
		if err != nil {
			continue
		}
		topics[name] = string(b)
	}
	if b, err := helpFS.ReadFile("docs/index.md"); err == nil {
		topics[""] = string(b)
	}
	return topics
}
