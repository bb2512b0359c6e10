package client

import (
	"errors"
	"fmt"
	"strings"

	"hierarchicalmenu/profilefield/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

var ErrNoCategoryList = errors.New("no category list found in document")

// treeParser reads nested <ul><li> lists. An item's id comes from its
// data-id or id attribute, its name from a .category-name element or else
// its own text.
type treeParser struct{}

func newTreeParser() *treeParser {
	return &treeParser{}
}

func (p *treeParser) ParseTree(html string) (domain.CategoryTree, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.CategoryTree{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := doc.Find("ul.category-tree").First()
	if root.Length() == 0 {
		// the outermost list is one that no other list contains
		root = doc.Find("ul").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.ParentsFiltered("ul").Length() == 0
		}).First()
	}
	if root.Length() == 0 {
		return domain.CategoryTree{}, ErrNoCategoryList
	}

	return domain.CategoryTree{Items: p.extractItems(root)}, nil
}

func (p *treeParser) extractItems(list *goquery.Selection) []domain.CategoryNode {
	nodes := make([]domain.CategoryNode, 0)
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		node := domain.CategoryNode{
			ID:       p.extractID(li),
			Name:     p.extractName(li),
			Children: make([]domain.CategoryNode, 0),
		}
		li.ChildrenFiltered("ul").Each(func(_ int, sub *goquery.Selection) {
			node.Children = append(node.Children, p.extractItems(sub)...)
		})

		if node.Name == "" && len(node.Children) == 0 {
			log.Debugf("Skipping empty list item")
			return
		}
		nodes = append(nodes, node)
	})
	return nodes
}

func (p *treeParser) extractID(li *goquery.Selection) string {
	if id, ok := li.Attr("data-id"); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if id, ok := li.Attr("id"); ok {
		return strings.TrimSpace(id)
	}
	return ""
}

func (p *treeParser) extractName(li *goquery.Selection) string {
	if name := li.ChildrenFiltered(".category-content").Find(".category-name").First(); name.Length() > 0 {
		return cleanText(name.Text())
	}
	if name := li.ChildrenFiltered(".category-name").First(); name.Length() > 0 {
		return cleanText(name.Text())
	}
	return cleanText(li.Contents().Not("ul").Text())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
