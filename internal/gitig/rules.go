// SPDX-License-Identifier: MIT

package gitig

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/neptuneng/fieldkit/internal/log"
)

// Rules is a declarative list of ignore entries kept in a TOML file:
//
//	[[entry]]
//	path = "build/"
//
//	[[entry]]
//	path = "secrets.env"
type Rules struct {
	Entries []Rule `toml:"entry"`
}

// Rule is one ignore target.
type Rule struct {
	Path string `toml:"path"`
}

// LoadRules parses a rules file.
func LoadRules(path string) (Rules, error) {
	var rules Rules
	if _, err := toml.DecodeFile(path, &rules); err != nil {
		return Rules{}, fmt.Errorf("load rules %s: %w", path, err)
	}
	for i, r := range rules.Entries {
		if r.Path == "" {
			return Rules{}, fmt.Errorf("rules %s: entry %d has no path", path, i+1)
		}
	}
	return rules, nil
}

// Apply ensures every rule entry is ignored and untracked. Running it
// twice is a no-op; it returns how many entries were newly added.
func Apply(root string, rules Rules) (int, error) {
	added := 0
	for _, r := range rules.Entries {
		entry := NormalizeEntry(root, r.Path)
		changed, err := EnsureEntry(root, entry)
		if err != nil {
			return added, err
		}
		if err := Untrack(root, entry); err != nil {
			return added, err
		}
		if changed {
			added++
		}
	}
	logger := log.WithComponent("gitig")
	logger.Info().
		Str("event", "gitig.rules_applied").
		Int("entries", len(rules.Entries)).
		Int("added", added).
		Msg("ignore rules applied")
	return added, nil
}
