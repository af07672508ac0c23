package moderation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CategoryProfanity is the single coarse category the classifier currently
// emits. The category slice in Classify's return leaves room for more.
const CategoryProfanity = "profanity"

// defaultWords is the built-in profanity dictionary. A larger or localized
// list can be layered on top via the BADWORDS_PATH file.
var defaultWords = []string{
	"anal", "arse", "arsehole", "ass", "asshat", "asshole",
	"bastard", "bitch", "bollocks", "boner", "bullshit",
	"clit", "cock", "crap", "cunt",
	"damn", "dick", "dickhead", "dildo", "douche", "douchebag", "dumbass",
	"fag", "faggot", "fuck", "fucked", "fucker", "fucking",
	"goddamn", "handjob", "horseshit", "jackass", "jerkoff",
	"kike", "motherfucker", "nigga", "nigger",
	"piss", "pissed", "prick", "pussy",
	"retard", "shit", "shithead", "shitty", "slut", "spic",
	"tit", "tits", "twat", "wank", "wanker", "whore",
	"blow job", "son of a bitch",
}

// leet folds common character substitutions before matching
var leet = strings.NewReplacer(
	"@", "a", "4", "a", "3", "e", "1", "i", "!", "i",
	"0", "o", "$", "s", "5", "s", "7", "t",
)

// Classifier scans text fragments for profane or abusive content. It is
// pure and deterministic given its dictionary; all I/O happens once at
// construction, and a dictionary load failure is fatal at process start.
type Classifier struct {
	words   map[string]struct{}
	phrases []string
}

// NewClassifier builds a classifier from the built-in dictionary plus an
// optional newline-separated word file.
func NewClassifier(wordlistPath string) (*Classifier, error) {
	c := &Classifier{words: make(map[string]struct{})}
	for _, w := range defaultWords {
		c.add(w)
	}

	if wordlistPath != "" {
		f, err := os.Open(wordlistPath)
		if err != nil {
			return nil, fmt.Errorf("classifier: load wordlist %s: %w", wordlistPath, err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			c.add(line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("classifier: read wordlist %s: %w", wordlistPath, err)
		}
	}

	return c, nil
}

func (c *Classifier) add(entry string) {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if entry == "" {
		return
	}
	if strings.ContainsRune(entry, ' ') {
		c.phrases = append(c.phrases, entry)
		return
	}
	c.words[entry] = struct{}{}
}

// Classify scans the fragments and reports (flagged, categories). Policy:
// flagged as soon as any fragment matches; the category list is currently
// the single "profanity" entry.
func (c *Classifier) Classify(fragments []string) (bool, []string) {
	for _, fragment := range fragments {
		if c.containsProfanity(fragment) {
			return true, []string{CategoryProfanity}
		}
	}
	return false, nil
}

func (c *Classifier) containsProfanity(text string) bool {
	normalized := leet.Replace(strings.ToLower(text))

	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	for _, tok := range tokens {
		if _, ok := c.words[tok]; ok {
			return true
		}
	}

	if len(c.phrases) > 0 {
		// collapse token runs so punctuation can't split a phrase
		joined := strings.Join(tokens, " ")
		for _, phrase := range c.phrases {
			if strings.Contains(joined, phrase) {
				return true
			}
		}
	}
	return false
}
