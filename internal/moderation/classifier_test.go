package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierCleanText(t *testing.T) {
	c, err := NewClassifier("")
	require.NoError(t, err)

	flagged, categories := c.Classify([]string{"A Quiet Morning", "The fog rolled over the harbor before dawn."})
	assert.False(t, flagged)
	assert.Empty(t, categories)
}

func TestClassifierFlagsProfanity(t *testing.T) {
	c, err := NewClassifier("")
	require.NoError(t, err)

	flagged, categories := c.Classify([]string{"Ordinary title", "That was a load of shit."})
	assert.True(t, flagged)
	assert.Equal(t, []string{CategoryProfanity}, categories)
}

func TestClassifierTitleAloneTriggers(t *testing.T) {
	c, err := NewClassifier("")
	require.NoError(t, err)

	flagged, _ := c.Classify([]string{"What the fuck", "Perfectly clean body text."})
	assert.True(t, flagged)
}

func TestClassifierLeetSubstitutions(t *testing.T) {
	c, err := NewClassifier("")
	require.NoError(t, err)

	flagged, _ := c.Classify([]string{"", "what a load of sh1t"})
	assert.True(t, flagged)

	flagged, _ = c.Classify([]string{"", "total bull$hit honestly"})
	assert.True(t, flagged)
}

func TestClassifierNoSubstringFalsePositives(t *testing.T) {
	c, err := NewClassifier("")
	require.NoError(t, err)

	// "class", "assassin" and "Scunthorpe" contain profane substrings but
	// are clean as whole words
	flagged, _ := c.Classify([]string{"", "The assassin taught a class in Scunthorpe."})
	assert.False(t, flagged)
}

func TestClassifierPhraseAcrossPunctuation(t *testing.T) {
	c, err := NewClassifier("")
	require.NoError(t, err)

	flagged, _ := c.Classify([]string{"", "a blow.job reference"})
	assert.True(t, flagged)
}

func TestClassifierCustomWordlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badwords.txt")
	content := "# comment line\nflibbertigibbet\n\nsnollygoster\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := NewClassifier(path)
	require.NoError(t, err)

	flagged, _ := c.Classify([]string{"", "what a snollygoster move"})
	assert.True(t, flagged)

	// comment lines are not entries
	flagged, _ = c.Classify([]string{"", "comment"})
	assert.False(t, flagged)
}

func TestClassifierMissingWordlistFails(t *testing.T) {
	_, err := NewClassifier(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
