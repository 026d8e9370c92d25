package templ

import (
	"fmt"
	"sort"
	"strings"
)

var collectionPattern = MustPattern(PrefixCollection)

// Rebase turns the body of a collection placeholder into a placeholder bound
// to parent: {$:txt:name} under "items[2]" becomes {txt:items[2].name}. A
// placeholder whose first field is itself "$" loses one level instead, so
// {$:$:txt:name} becomes {$:txt:name} and is bound by the next expansion.
func Rebase(parent, body string) (string, error) {
	fields := strings.Split(body, FieldSep)
	if len(fields) < 2 {
		return "", NewGrammarError("", collectionPattern.Text(body),
			fmt.Sprintf("too few %q-separated fields: need a prefix and a path", FieldSep))
	}
	if fields[0] == PrefixCollection {
		return placeholder(PrefixCollection, fields[1:]...), nil
	}
	if fields[0] == "" {
		return "", NewGrammarError("", collectionPattern.Text(body), "empty prefix")
	}
	fields[1] = joinPath(parent, fields[1])
	return placeholder(fields[0], fields[1:]...), nil
}

func joinPath(parent, rel string) string {
	if parent == "" || rel == "" {
		return parent + rel
	}
	return parent + "." + rel
}

// indexPath addresses one element of the collection at path.
func indexPath(path, key string) string {
	return path + "[" + key + "]"
}

// rebaseScope rewrites the collection placeholders of a freshly created
// element: in paragraph text, in picture descriptions and in hyperlink
// targets. Copied pictures get new object ids.
func rebaseScope(ctx *BuildContext, s *Scope, parent string) error {
	for _, ref := range s.paragraphs() {
		if err := rebaseParagraph(ref, parent); err != nil {
			return err
		}
	}
	for _, d := range s.drawings() {
		d.drawing.SetID(ctx.Document.nextDrawingID())
		desc, err := rebaseString(d.drawing.Description(), parent)
		if err != nil {
			return err
		}
		d.drawing.SetDescription(desc)
	}
	for _, h := range s.hyperlinks() {
		target, ok := h.part.HyperlinkTarget(h.link.RelationshipID())
		if !ok {
			continue
		}
		target = unescapeURL(target)
		if !collectionPattern.MatchString(target) {
			continue
		}
		rebased, err := rebaseString(target, parent)
		if err != nil {
			return err
		}
		h.link.SetRelationshipID(h.part.AddHyperlink(rebased))
	}
	return nil
}

func rebaseParagraph(ref paragraphRef, parent string) error {
	bodies := collectionPattern.FindAllString(ref.paragraph.TemplateText(), -1)
	if len(bodies) == 0 {
		return nil
	}
	// Demoted placeholders keep the collection prefix. Replacing them last
	// keeps them from being taken for placeholders of this level.
	sort.SliceStable(bodies, func(i, j int) bool {
		return !isDemotion(bodies[i]) && isDemotion(bodies[j])
	})
	seen := make(map[string]bool, len(bodies))
	for _, body := range bodies {
		if seen[body] {
			continue
		}
		seen[body] = true
		rebased, err := Rebase(parent, body)
		if err != nil {
			return err
		}
		ref.paragraph.ReplaceText(collectionPattern.Text(body), rebased)
	}
	return nil
}

func isDemotion(body string) bool {
	return strings.HasPrefix(body, PrefixCollection+FieldSep)
}

func rebaseString(s, parent string) (string, error) {
	var err error
	out := collectionPattern.re.ReplaceAllStringFunc(s, func(ph string) string {
		if err != nil {
			return ph
		}
		body := strings.TrimSuffix(strings.TrimPrefix(ph, MatchOpen+PrefixCollection+FieldSep), MatchClose)
		rebased, rerr := Rebase(parent, body)
		if rerr != nil {
			err = rerr
			return ph
		}
		return rebased
	})
	return out, err
}

// expand rebases the collection placeholders of a new element of m's
// collection onto parent and runs the modules up to the running one over the
// element.
func (c *BuildContext) expand(m Match, s *Scope, parent string) error {
	if c.depth+1 > c.Config.MaxDepth {
		return NewGrammarError(c.builder.modules[c.stage].Name(), m.Placeholder(),
			fmt.Sprintf("collection %q is nested deeper than %d levels", parent, c.Config.MaxDepth))
	}
	if err := rebaseScope(c, s, parent); err != nil {
		return err
	}
	nested := *c
	nested.depth++
	return c.builder.run(&nested, s, c.stage+1)
}
