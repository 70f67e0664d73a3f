package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wxrport"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Truncation markers of the Wix blog template.
var (
	RecentPostsMarker = regexp.MustCompile(`(?i)Recent Posts`)
	SubscribeMarker   = regexp.MustCompile(`(?i)Stay updated!`)
	CopyrightMarker   = regexp.MustCompile(`(?i)©\s*20\d{2}`)
)

// DefaultSanitizers returns the cleaning pipeline for Wix blog pages, in
// the order it must run.
func DefaultSanitizers() []wxrport.Sanitizer {
	return []wxrport.Sanitizer{
		RemoveLandmarks,
		RemoveShareActions,
		RemoveImageExpandButtons,
		TruncateAt(RecentPostsMarker),
		TruncateAt(SubscribeMarker),
		TruncateAt(CopyrightMarker),
	}
}

// RemoveLandmarks removes header and nav blocks with all their content.
func RemoveLandmarks(fragment string) string {
	return removeMatching(fragment, func(n *html.Node) bool {
		return n.DataAtom == atom.Header || n.DataAtom == atom.Nav
	})
}

// RemoveShareActions removes the social share section of a post. The
// section is recognised by the post-main-actions-desktop marker in any of
// its attributes; Wix emits it as a data-hook or a class depending on the
// template version.
func RemoveShareActions(fragment string) string {
	return removeMatching(fragment, func(n *html.Node) bool {
		if n.DataAtom != atom.Section {
			return false
		}
		for _, a := range n.Attr {
			if strings.Contains(a.Val, "post-main-actions-desktop") {
				return true
			}
		}
		return false
	})
}

// RemoveImageExpandButtons removes the "expand image" overlay buttons.
func RemoveImageExpandButtons(fragment string) string {
	return removeMatching(fragment, func(n *html.Node) bool {
		if n.DataAtom != atom.Button {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == "data-hook" && a.Val == "image-expand-button" {
				return true
			}
		}
		return false
	})
}

// TruncateAt returns a sanitizer that drops everything from the first text
// matching marker to the end of the fragment. When the marker opens its
// block, such as a "Recent Posts" heading, the whole block goes with it.
// Text before the marker in the same block is kept. Containers left empty
// by the cut are removed.
func TruncateAt(marker *regexp.Regexp) wxrport.Sanitizer {
	return func(fragment string) string {
		root, err := parseFragment(fragment)
		if err != nil {
			return fragment
		}

		n, at := findText(root, marker)
		if n == nil {
			return fragment
		}

		cut := n
		if strings.TrimSpace(n.Data[:at]) != "" {
			n.Data = n.Data[:at]
		} else {
			cut = markerBlock(root, n)
		}

		for cur := cut; cur != root; cur = cur.Parent {
			for sib := cur.NextSibling; sib != nil; {
				next := sib.NextSibling
				cur.Parent.RemoveChild(sib)
				sib = next
			}
		}
		if cut != n {
			parent := cut.Parent
			parent.RemoveChild(cut)
			pruneEmpty(root, parent)
		}
		return render(root, fragment)
	}
}

// markerBlock climbs from the marker's text node to the outermost node the
// marker opens: it stops at the first block-level element, or before an
// ancestor with text preceding the marker.
func markerBlock(root, n *html.Node) *html.Node {
	cur := n
	for !isBlock(cur) && cur.Parent != root && !hasTextBefore(cur) {
		cur = cur.Parent
	}
	return cur
}

// hasTextBefore reports whether a preceding sibling of n holds non-blank text.
func hasTextBefore(n *html.Node) bool {
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if strings.TrimSpace(goquery.NewDocumentFromNode(sib).Text()) != "" {
			return true
		}
		if sib.Type == html.ElementNode && sib.DataAtom == atom.Img {
			return true
		}
	}
	return false
}

// pruneEmpty removes n and its ancestors below root while they hold
// nothing but whitespace.
func pruneEmpty(root, n *html.Node) {
	for n != root && n.Type == html.ElementNode && isEmpty(n) {
		parent := n.Parent
		parent.RemoveChild(n)
		n = parent
	}
}

func isEmpty(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode || strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}

// blockAtoms are the elements a truncation marker can open.
var blockAtoms = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Div: true, atom.Section: true, atom.Aside: true, atom.Footer: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Blockquote: true, atom.Figure: true,
	atom.Figcaption: true, atom.Table: true, atom.Tr: true, atom.Td: true,
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && blockAtoms[n.DataAtom]
}

// removeMatching removes every element node that match reports true for.
func removeMatching(fragment string, match func(n *html.Node) bool) string {
	root, err := parseFragment(fragment)
	if err != nil {
		return fragment
	}

	doc := goquery.NewDocumentFromNode(root)
	sel := doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return match(s.Get(0))
	})
	if sel.Length() == 0 {
		return fragment
	}
	sel.Remove()
	return render(root, fragment)
}

// findText returns the first text node in document order matching marker
// and the byte offset of the match.
func findText(n *html.Node, marker *regexp.Regexp) (*html.Node, int) {
	if n.Type == html.TextNode {
		if loc := marker.FindStringIndex(n.Data); loc != nil {
			return n, loc[0]
		}
		return nil, 0
	}
	if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
		return nil, 0
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found, at := findText(c, marker); found != nil {
			return found, at
		}
	}
	return nil, 0
}

// parseFragment parses an HTML fragment in a body context and returns a
// detached container element holding its nodes.
func parseFragment(fragment string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// render returns the inner HTML of root, or fallback if rendering fails.
func render(root *html.Node, fallback string) string {
	out, err := goquery.NewDocumentFromNode(root).Html()
	if err != nil {
		return fallback
	}
	return strings.TrimSpace(out)
}
