// Package docs embeds the user documentation, one markdown file per topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.md
var files embed.FS

// index is the topic listing all the others.
const index = "readme"

// GetTopic returns the markdown of a topic, "*" for all of them.
func GetTopic(name string) (string, error) { return GetTopics(name) }

// GetTopics returns topics one after the other. "*" expands to every topic.
func GetTopics(names ...string) (string, error) {
	var parts []string
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			expanded = all
		}
		for _, n := range expanded {
			content, err := files.ReadFile(n + ".md")
			if err != nil {
				return "", fmt.Errorf("topic %q not found: %w", n, err)
			}
			parts = append(parts, string(content))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// GetAllTopics returns the sorted names of the topics, the index excluded.
func GetAllTopics() ([]string, error) {
	matches, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	topics := make([]string, 0, len(matches))
	for _, m := range matches {
		if name := strings.TrimSuffix(m, ".md"); name != index {
			topics = append(topics, name)
		}
	}
	return topics, nil
}
