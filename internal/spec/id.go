package spec

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// idPattern matches the shape NewID generates: three lowercase
// hyphenated words, matching the readable-slug convention used elsewhere
// in this codebase (see Slugify-style ID rules). A user-supplied spec_id
// only has to pass ValidateID, which accepts a broader slug shape.
var idPattern = regexp.MustCompile(`^[a-z]+-[a-z]+-[a-z]+$`)

// adjectives and nouns are small, deliberately plain word lists — enough
// entropy (roughly 4 to 4.6 bits per word, about 13 bits across the
// 24 x 22 x 18 = 9,504 combinations) to make collisions on a single
// project's spec set rare without pulling in a wordlist dependency.
var adjectives = []string{
	"amber", "brisk", "calm", "dusty", "eager", "faint", "gentle", "hollow",
	"ivory", "jagged", "keen", "lively", "misty", "noble", "olive", "plain",
	"quiet", "rapid", "silver", "tidy", "urban", "vivid", "warm", "young",
}

var nouns = []string{
	"ridge", "harbor", "falcon", "meadow", "otter", "canyon", "lantern",
	"orchard", "prairie", "summit", "thicket", "cove", "heron", "quarry",
	"willow", "basin", "cedar", "delta", "fjord", "glacier", "marsh", "owl",
}

var suffixes = []string{
	"fox", "hawk", "bear", "wolf", "crane", "lynx", "moth", "newt", "seal",
	"stag", "swan", "toad", "wren", "bison", "crow", "eel", "gull", "hare",
}

// NewID generates a random pronounceable spec_id: adjective-noun-animal.
func NewID() (string, error) {
	a, err := pick(adjectives)
	if err != nil {
		return "", err
	}
	n, err := pick(nouns)
	if err != nil {
		return "", err
	}
	s, err := pick(suffixes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", a, n, s), nil
}

func pick(words []string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", fmt.Errorf("spec: generating random id component: %w", err)
	}
	return words[n.Int64()], nil
}

// ValidateID returns an error unless id looks like a generated spec_id or
// a user-chosen slug of the same shape (lowercase, hyphenated, no
// consecutive or leading/trailing hyphens).
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("spec_id is required")
	}
	if strings.Contains(id, "--") || strings.HasPrefix(id, "-") || strings.HasSuffix(id, "-") {
		return fmt.Errorf("invalid spec_id %q: must not contain consecutive, leading, or trailing hyphens", id)
	}
	if !regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`).MatchString(id) {
		return fmt.Errorf("invalid spec_id %q: must be lowercase alphanumeric with hyphens", id)
	}
	return nil
}

// LooksGenerated reports whether id matches the three-word pattern NewID
// produces, for diagnostics only — ValidateID is the binding rule.
func LooksGenerated(id string) bool {
	return idPattern.MatchString(id)
}
