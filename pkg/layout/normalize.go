package layout

import "strings"

// NormalizeTokens converts engine word records into Tokens.
// Non-breaking spaces in the recognized text become ordinary spaces, so the
// only NBSPs in the output are the ones added for layout.
func NormalizeTokens(words []Record) []Token {
	if len(words) == 0 {
		return nil
	}
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, Token{
			Text: strings.ReplaceAll(w.Text, string(NBSP), " "),
			BBox: w.BBox,
		})
	}
	return tokens
}
