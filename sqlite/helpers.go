package sqlite

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// now returns the current time formatted for storage.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// hashContent returns the hex xxHash of the given parts.
func hashContent(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// treeCTE selects the ids of a folder and all of its descendants.
const treeCTE = `
	WITH RECURSIVE tree(id) AS (
		SELECT id FROM folders WHERE id = ?
		UNION ALL
		SELECT f.id FROM folders f JOIN tree t ON f.parent_id = t.id
	)`
