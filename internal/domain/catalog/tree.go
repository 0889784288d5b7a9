// Package catalog reglas de la jerarquía de categorías.
package catalog

import (
	"sort"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// BuildTree arma el árbol a partir de la lista plana. Hijos ordenados por sort_order y nombre.
// Un nodo cuyo padre no está en la lista se trata como raíz.
func BuildTree(list []*entity.Category) []*entity.CategoryNode {
	nodes := make(map[string]*entity.CategoryNode, len(list))
	for _, c := range list {
		nodes[c.ID] = &entity.CategoryNode{Category: *c, Children: []*entity.CategoryNode{}}
	}
	roots := []*entity.CategoryNode{}
	for _, c := range list {
		n := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	sortNodes(roots)
	return roots
}

func sortNodes(ns []*entity.CategoryNode) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].SortOrder != ns[j].SortOrder {
			return ns[i].SortOrder < ns[j].SortOrder
		}
		return ns[i].Name < ns[j].Name
	})
	for _, n := range ns {
		sortNodes(n.Children)
	}
}

// IsSelfOrDescendant indica si candidateID es rootID o cuelga de él.
func IsSelfOrDescendant(list []*entity.Category, rootID, candidateID string) bool {
	parents := make(map[string]string, len(list))
	for _, c := range list {
		if c.ParentID != nil {
			parents[c.ID] = *c.ParentID
		}
	}
	seen := map[string]bool{}
	for id := candidateID; id != ""; id = parents[id] {
		if id == rootID {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return false
}

// Placement nivel y path de una categoría según su padre (nil = raíz).
func Placement(parent *entity.Category, slug string) (level int, path string) {
	if parent == nil {
		return 0, slug
	}
	return parent.Level + 1, parent.Path + "/" + slug
}
