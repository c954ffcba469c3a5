package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

var internalTables = map[string]bool{
	"schema_migrations":    true,
	"ar_internal_metadata": true,
	"goose_db_version":     true,
}

func isInternalTable(name string) bool {
	return internalTables[name] || strings.HasPrefix(name, "sqlite_")
}

// tableCandidates lists the relation names a model name may refer to, most
// literal first: User -> User, user, users.
func tableCandidates(name string) []string {
	snake := toSnake(name)
	candidates := []string{name, strings.ToLower(name), snake, inflection.Plural(snake)}

	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// toSnake converts BlogPost, blogPost and Admin::User style names to
// snake_case. Runs of capitals stay together: HTTPLog -> http_log.
func toSnake(s string) string {
	runes := []rune(strings.TrimSpace(s))
	var b strings.Builder
	lastUnderscore := true

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !lastUnderscore {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// classify turns a table name into a model name: blog_posts -> BlogPost.
func classify(table string) string {
	var b strings.Builder
	for _, part := range strings.Split(inflection.Singular(table), "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}
