package review

import "strings"

// AnnotationKey addresses one reviewer note: a unified row identity plus a
// logical column name.
type AnnotationKey struct {
	Key    string
	Column string
}

// Annotations holds reviewer free-text notes. The store itself is owned by
// the caller; the merger only re-keys entries when identities collapse.
type Annotations map[AnnotationKey]string

// Get returns the note for (key, column), or "".
func (a Annotations) Get(key, column string) string {
	return a[AnnotationKey{Key: key, Column: column}]
}

// Set stores a note, deleting the entry when text is blank.
func (a Annotations) Set(key, column, text string) {
	k := AnnotationKey{Key: key, Column: column}
	if strings.TrimSpace(text) == "" {
		delete(a, k)
		return
	}
	a[k] = text
}

// migrate re-keys every note under oldKey to newKey, unioning with any
// existing note for the same column and de-duplicating identical text.
func (a Annotations) migrate(oldKey, newKey string) {
	if oldKey == newKey {
		return
	}
	for k, text := range a {
		if k.Key != oldKey {
			continue
		}
		dst := AnnotationKey{Key: newKey, Column: k.Column}
		a[dst] = joinUnique(a[dst], text)
		delete(a, k)
	}
}

// joinUnique concatenates b onto a with the note separator, skipping blank
// and duplicate segments.
func joinUnique(a, b string) string {
	b = strings.TrimSpace(b)
	if b == "" {
		return a
	}
	if a == "" {
		return b
	}
	for _, seg := range strings.Split(a, NoteSeparator) {
		if strings.TrimSpace(seg) == b {
			return a
		}
	}
	return a + NoteSeparator + b
}
