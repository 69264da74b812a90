package sections

import "strings"

// stripCatalogTags removes 5etools-style inline markup tags such as
// "{@damage 3d6}" or "{@condition prone}", keeping the tag's display
// text (the first argument up to any "|", or the whole argument if
// there's no "|"). Raw "{"/"}" must never reach the typeset engine
// since it has no markup concept of its own.
func stripCatalogTags(s string) string {
	var buf strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '{' && i+1 < len(s) && s[i+1] == '@' {
			end := strings.IndexByte(s[i:], '}')
			if end == -1 {
				buf.WriteString(s[i:])
				break
			}
			inner := s[i+2 : i+end]
			buf.WriteString(tagDisplayText(inner))
			i += end + 1
			continue
		}
		buf.WriteByte(s[i])
		i++
	}
	return buf.String()
}

// tagDisplayText extracts the human-readable part of a tag body like
// "damage 3d6" or "creature goblin|MM|goblins". 5etools tags put the
// tag name first, then pipe-separated arguments; this returns the first
// argument, so a display text given in a later segment is not used.
func tagDisplayText(body string) string {
	fields := strings.SplitN(body, " ", 2)
	rest := body
	if len(fields) == 2 {
		rest = fields[1]
	}
	parts := strings.Split(rest, "|")
	if len(parts) == 0 {
		return rest
	}
	// "{@creature goblin|MM}" -> "goblin"; "{@condition prone||stunned}" -> "prone"
	return parts[0]
}
