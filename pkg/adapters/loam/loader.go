package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// DefaultGraphID holds documents that sit at the repository root without a graph field.
const DefaultGraphID = "main"

// Loader adapts a Loam repository to ports.GraphSource.
//
// Each document is one node. Documents are grouped into graphs by their directory
// (permesso/start.md belongs to graph "permesso") unless the frontmatter names a graph.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a strict, read-only Loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[NodeMetadata](repo)), nil
}

type placedNode struct {
	docID string
	meta  NodeMetadata
	node  domain.Node
}

// nodes lists every document and groups them by graph id.
func (l *Loader) nodes(ctx context.Context) (map[string][]placedNode, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	groups := make(map[string][]placedNode)
	for _, doc := range docs {
		graphID, nodeID := split(doc.ID, doc.Data)
		groups[graphID] = append(groups[graphID], placedNode{
			docID: doc.ID,
			meta:  doc.Data,
			node:  toNode(nodeID, doc.Data, doc.Content),
		})
	}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].node.ID < group[j].node.ID })
	}
	return groups, nil
}

// Graph assembles the graph id from its node documents.
func (l *Loader) Graph(ctx context.Context, id string) (*domain.Graph, error) {
	groups, err := l.nodes(ctx)
	if err != nil {
		return nil, err
	}
	group, ok := groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, id)
	}

	g := &domain.Graph{
		ID:    id,
		Nodes: make(map[string]domain.Node, len(group)),
	}
	seen := make(map[string]string, len(group))
	for _, p := range group {
		if existing, dup := seen[p.node.ID]; dup {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", p.node.ID, existing, p.docID)
		}
		seen[p.node.ID] = p.docID
		g.Nodes[p.node.ID] = p.node

		if p.meta.Start {
			g.StartNodeID = p.node.ID
		}
		for _, e := range p.meta.Edges {
			key := e.OptionKey
			if key == "" {
				key = e.To
			}
			g.Edges = append(g.Edges, domain.Edge{
				From:        p.node.ID,
				To:          e.To,
				Label:       e.Label,
				Description: e.Description,
				OptionKey:   key,
			})
		}
	}
	if g.StartNodeID == "" {
		g.StartNodeID = "start"
	}
	return g, nil
}

// ListGraphs returns the ids of all graphs in the repository.
func (l *Loader) ListGraphs(ctx context.Context) ([]string, error) {
	groups, err := l.nodes(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch implements ports.Watchable. It emits the graph id of each changed document.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				graphID, _ := split(evt.ID, NodeMetadata{})
				select {
				case ch <- graphID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func split(docID string, meta NodeMetadata) (graphID, nodeID string) {
	id := trimExtension(docID)
	dir, base := path.Split(id)
	graphID = strings.TrimSuffix(dir, "/")
	if meta.Graph != "" {
		graphID = meta.Graph
	}
	if graphID == "" {
		graphID = DefaultGraphID
	}
	nodeID = base
	if meta.ID != "" {
		nodeID = trimExtension(meta.ID)
	}
	return graphID, nodeID
}

func toNode(id string, meta NodeMetadata, content string) domain.Node {
	n := domain.Node{
		ID:               id,
		Kind:             domain.NodeKind(meta.Kind),
		Description:      meta.Description,
		Title:            meta.Title,
		Intro:            meta.Intro,
		Sections:         meta.Sections,
		Links:            meta.Links,
		EmergencyNumbers: meta.EmergencyNumbers,
	}
	if n.Kind == "" {
		n.Kind = domain.KindQuestion
	}
	body := strings.TrimSpace(content)
	if n.IsResult() {
		if n.Intro == "" {
			n.Intro = body
		}
	} else {
		n.Text = body
	}
	return n
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
