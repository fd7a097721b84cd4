package searcher

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

const graphName = "mcts"

// Dot renders the visited part of the last search tree, down to maxDepth,
// in Graphviz DOT format. Chance nodes are drawn as diamonds.
func (m *MCTS[M, P]) Dot(maxDepth int) (string, error) {
	if m.root == nil {
		return "", errors.New("no search tree to render")
	}

	graph := gographviz.NewGraph()
	if err := graph.SetName(graphName); err != nil {
		return "", errors.WithStack(err)
	}
	if err := graph.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	ids := 0
	var walk func(n *node[M, P], id string) error
	walk = func(n *node[M, P], id string) error {
		if err := graph.AddNode(graphName, id, m.nodeAttrs(n)); err != nil {
			return errors.Wrapf(err, "adding node %s", id)
		}
		if n.depth >= maxDepth {
			return nil
		}
		for _, child := range n.children {
			if child.visits == 0 {
				continue
			}
			ids++
			childID := "n" + strconv.Itoa(ids)
			if err := walk(child, childID); err != nil {
				return err
			}
			attrs := map[string]string{"label": strconv.Quote(fmt.Sprint(child.move))}
			if err := graph.AddEdge(id, childID, true, attrs); err != nil {
				return errors.Wrapf(err, "adding edge %s -> %s", id, childID)
			}
		}
		return nil
	}

	if err := walk(m.root, "n0"); err != nil {
		return "", err
	}
	return graph.String(), nil
}

func (m *MCTS[M, P]) nodeAttrs(n *node[M, P]) map[string]string {
	label := fmt.Sprintf("N=%d W=%d", n.visits, n.wins[m.player])
	attrs := map[string]string{"label": strconv.Quote(label)}
	if n.chance {
		attrs["shape"] = "diamond"
	}
	return attrs
}
