package layout

import "strings"

// Reconstruct turns one page of recognition output into layout-preserving text.
//
// With engine lines available, words are assigned to those lines; otherwise
// rows are inferred from the words' vertical positions. When the engine
// returned lines but no words, the line transcripts are joined as they are.
// Empty input yields an empty Result.
func Reconstruct(rec Recognition, opts ...Option) Result {
	o := newOptions(opts)
	res := Result{Direction: o.dir}

	tokens := NormalizeTokens(rec.Words)
	if len(tokens) == 0 {
		if len(rec.Lines) == 0 {
			return res
		}
		res.Lines = make([]string, 0, len(rec.Lines))
		for _, l := range rec.Lines {
			res.Lines = append(res.Lines, l.Text)
		}
		res.Text = strings.Join(res.Lines, "\n")
		return res
	}

	res.Metrics = Measure(tokens, rec.Lines, o.cfg)

	var groups []LineGroup
	if len(rec.Lines) > 0 {
		groups = AssignToLines(tokens, rec.Lines, res.Metrics, o.cfg)
	} else {
		groups = ClusterTokens(tokens, res.Metrics, o.cfg)
	}
	SortGroups(groups)
	for i := range groups {
		groups[i].Tokens = OrderTokens(groups[i].Tokens, o.dir)
	}

	res.Groups = groups
	res.Lines = Expand(groups, res.Metrics, o.dir, o.cfg)
	res.Text = strings.Join(res.Lines, "\n")
	return res
}
