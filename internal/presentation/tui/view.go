package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/session"
)

var linkHeadings = []struct {
	category domain.LinkCategory
	heading  string
}{
	{domain.LinkGuide, "Guide"},
	{domain.LinkLegalAid, "Legal aid"},
	{domain.LinkExternal, "Links"},
}

// ViewMarkdown renders the current position of a session as markdown.
// Questions list their options numbered from 1; results show the full outcome.
func ViewMarkdown(v session.View) string {
	var sb strings.Builder
	if v.Node == nil {
		fmt.Fprintf(&sb, "_Unknown node `%s`._\n", v.CurrentNodeID)
		return sb.String()
	}
	if v.IsTerminal {
		writeResult(&sb, v)
		return sb.String()
	}

	fmt.Fprintf(&sb, "## %s\n\n", v.Prompt)
	if v.Node.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", v.Node.Description)
	}
	for i, opt := range v.Options {
		marker := ""
		if opt.OptionKey == v.SelectedOption {
			marker = " **(selected)**"
		}
		fmt.Fprintf(&sb, "%d. %s%s\n", i+1, opt.Label, marker)
		if opt.Description != "" {
			fmt.Fprintf(&sb, "   _%s_\n", opt.Description)
		}
	}
	return sb.String()
}

func writeResult(sb *strings.Builder, v session.View) {
	n := v.Node
	title := n.Title
	if title == "" {
		title = n.ID
	}
	fmt.Fprintf(sb, "# %s\n\n", title)
	if v.Prompt != "" {
		fmt.Fprintf(sb, "%s\n\n", v.Prompt)
	}
	for _, s := range n.Sections {
		fmt.Fprintf(sb, "### %s\n\n%s\n\n", s.Heading, s.Body)
	}
	for _, group := range linkHeadings {
		var links []domain.Link
		for _, l := range n.Links {
			if l.Category == group.category || (group.category == domain.LinkExternal && !knownCategory(l.Category)) {
				links = append(links, l)
			}
		}
		if len(links) == 0 {
			continue
		}
		fmt.Fprintf(sb, "### %s\n\n", group.heading)
		for _, l := range links {
			fmt.Fprintf(sb, "- [%s](%s)\n", l.Label, l.URL)
		}
		sb.WriteString("\n")
	}
	if len(n.EmergencyNumbers) > 0 {
		fmt.Fprintf(sb, "> **Emergency:** %s\n", strings.Join(n.EmergencyNumbers, " · "))
	}
}

func knownCategory(c domain.LinkCategory) bool {
	return c == domain.LinkGuide || c == domain.LinkLegalAid || c == domain.LinkExternal
}
