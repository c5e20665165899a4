package source

import (
	"strings"

	"golang.org/x/net/html"
)

// nodeMatch reports whether a node is one an extraction strategy is
// looking for.
type nodeMatch func(n *html.Node) bool

// extractStrategy is one way to pull a text field out of a DOM subtree.
// Strategies are tried in order until one yields a non-empty result;
// the ordered-fallback shape is deliberate since boards change their
// markup between what older and newer pages serve.
type extractStrategy struct {
	match nodeMatch
}

// extractText runs the strategies in order against the subtree rooted
// at n and returns the first non-empty text they produce.
func extractText(n *html.Node, strategies []extractStrategy) string {
	for _, strategy := range strategies {
		if node := findNode(n, strategy.match); node != nil {
			if text := textContent(node); text != "" {
				return text
			}
		}
	}
	return ""
}

// elementWithClass matches an element node whose class attribute
// contains the given fragment.
func elementWithClass(tag, class string) nodeMatch {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		return strings.Contains(attrValue(n, "class"), class)
	}
}

// elementWithAttr matches an element node carrying an attribute with
// the exact given value. An empty value matches mere presence.
func elementWithAttr(tag, key, value string) nodeMatch {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == key && (value == "" || a.Val == value) {
				return true
			}
		}
		return false
	}
}

func element(tag string) nodeMatch {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// findNode returns the first node in the subtree matching the
// predicate, depth-first.
func findNode(n *html.Node, match nodeMatch) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findNodes collects every node in the subtree matching the predicate.
// Matched nodes are not descended into, so nested cards count once.
func findNodes(n *html.Node, match nodeMatch) []*html.Node {
	if match(n) {
		return []*html.Node{n}
	}
	var found []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		found = append(found, findNodes(c, match)...)
	}
	return found
}

// textContent returns the trimmed concatenated text of a subtree.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if part := textContent(c); part != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(part)
		}
	}
	return strings.TrimSpace(sb.String())
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// StripTags reduces an HTML fragment to its plain text. Unparseable
// input is returned as-is.
func StripTags(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return textContent(doc)
}

// truncate caps a string at limit runes.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
