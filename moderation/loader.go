package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"karaoke-queue/errors"
	"path"
	"sort"
	"strings"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// WordList is the result of loading the censored dictionaries.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadWords reads every .txt file of dir, one word per line, and returns the
// unique words. The file name without extension is the language.
func LoadWords(fsys fs.FS, dir string) (WordList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return WordList{}, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return WordList{}, err
		}
		// Scanner copes with both \n and \r\n line endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if word := strings.TrimSpace(scanner.Text()); word != "" && !strings.HasPrefix(word, "#") {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return WordList{}, err
		}
	}

	if len(unique) == 0 {
		return WordList{}, errors.ErrEmptyWords
	}
	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	sort.Strings(words)
	return WordList{Words: words, Languages: languages}, nil
}

// NewDefaultModerator builds a moderator from the embedded dictionaries.
func NewDefaultModerator(censoredChar rune) (*Moderator, WordList, error) {
	list, err := LoadWords(censoredFolder, "censored")
	if err != nil {
		return nil, WordList{}, err
	}
	m, err := NewModerator(list.Words, censoredChar)
	if err != nil {
		return nil, WordList{}, err
	}
	return m, list, nil
}
