// lootfilter/pkg/compiler/tokenize.go

package compiler

import "strings"

// Tokenize splits an argument tail on spaces. Text between double quotes forms a
// single token with its inner spaces kept and the quotes removed. When the quotes
// do not pair up, the partial last token is still returned and unbalanced is true.
func Tokenize(args string) (tokens []string, unbalanced bool) {
	parts := strings.Split(strings.TrimSpace(strings.ReplaceAll(args, "\t", " ")), " ")

	quotes := 0
	current := ""
	for _, part := range parts {
		quotes += strings.Count(part, `"`)
		bare := strings.ReplaceAll(part, `"`, "")
		if current != "" {
			current += " " + bare
		} else {
			current = bare
		}
		if quotes%2 == 0 {
			tokens = append(tokens, current)
			current = ""
		}
	}
	if quotes%2 != 0 {
		unbalanced = true
		tokens = append(tokens, current)
	}

	out := tokens[:0]
	for _, tok := range tokens {
		if strings.TrimSpace(tok) != "" {
			out = append(out, tok)
		}
	}
	return out, unbalanced
}

// stripComment cuts a line at the first '#'. Quotes are not taken into account.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// splitKeyword separates the first token of a line from its argument tail.
func splitKeyword(line string) (keyword, args string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
