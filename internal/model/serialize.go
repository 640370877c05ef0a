package model

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// exportFile is the on-disk shape of an export: groups nest their
// templates, and list position is the order.
type exportFile struct {
	ShortcutKey string        `yaml:"shortcut_key"`
	Groups      []exportGroup `yaml:"groups"`
	Ungrouped   []exportEntry `yaml:"ungrouped"`
}

type exportGroup struct {
	ID        int           `yaml:"id"`
	Name      string        `yaml:"name"`
	Templates []exportEntry `yaml:"templates"`
}

type exportEntry struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

// LoadExport reads an export file written by SaveExport.
func LoadExport(path string) (*StorageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file %s: %w", path, err)
	}
	d, err := UnmarshalExport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export file %s: %w", path, err)
	}
	return d, nil
}

// UnmarshalExport decodes an export document. Orders are taken from list
// positions. Templates without an id get fresh ones.
func UnmarshalExport(data []byte) (*StorageData, error) {
	var f exportFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	d := NewStorageData()
	if f.ShortcutKey != "" {
		d.ShortcutKey = f.ShortcutKey
	}

	groupIDs := make(map[int]bool)
	for _, eg := range f.Groups {
		if eg.ID > 0 {
			groupIDs[eg.ID] = true
		}
	}

	var pending []Template
	for i, eg := range f.Groups {
		g := Group{ID: eg.ID, Name: eg.Name, Order: i}
		if g.ID <= 0 || d.FindGroup(g.ID) != nil {
			g.ID = nextFree(groupIDs)
		}
		d.Groups = append(d.Groups, g)
		for j, e := range eg.Templates {
			pending = append(pending, Template{
				ID: e.ID, GroupID: GroupRef(g.ID), Name: e.Name, Content: e.Content, Order: j,
			})
		}
	}
	for j, e := range f.Ungrouped {
		pending = append(pending, Template{ID: e.ID, Name: e.Name, Content: e.Content, Order: j})
	}

	used := make(map[int]bool)
	for _, t := range pending {
		if t.ID > 0 {
			used[t.ID] = true
		}
	}
	for i := range pending {
		t := &pending[i]
		if t.ID <= 0 || d.FindTemplate(t.ID) != nil {
			t.ID = nextFree(used)
		}
		d.Templates = append(d.Templates, *t)
	}
	return d, nil
}

func nextFree(used map[int]bool) int {
	max := 0
	for id := range used {
		if id > max {
			max = id
		}
	}
	used[max+1] = true
	return max + 1
}

// SaveExport writes d to path in export form.
func SaveExport(path string, d *StorageData) error {
	data, err := MarshalExport(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return nil
}

// MarshalExport encodes d as an export document.
// Groups and templates are written in display order.
// Multi-line content uses block scalar style.
func MarshalExport(d *StorageData) ([]byte, error) {
	node := buildExportNode(d)
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// buildExportNode creates a yaml.Node tree for d with proper formatting.
func buildExportNode(d *StorageData) *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	addStringField(doc, "shortcut_key", d.ShortcutKey)

	groupsNode := &yaml.Node{Kind: yaml.SequenceNode}
	var ungrouped []Template
	for _, b := range d.Buckets() {
		if b.Orphan {
			ungrouped = b.Templates
			continue
		}
		gNode := &yaml.Node{Kind: yaml.MappingNode}
		addIntField(gNode, "id", b.Group.ID)
		addStringField(gNode, "name", b.Group.Name)
		gNode.Content = append(gNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "templates"},
			buildEntriesNode(b.Templates),
		)
		groupsNode.Content = append(groupsNode.Content, gNode)
	}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "groups"},
		groupsNode,
	)

	if len(ungrouped) > 0 {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "ungrouped"},
			buildEntriesNode(ungrouped),
		)
	}

	return doc
}

// buildEntriesNode creates a sequence node for templates.
func buildEntriesNode(ts []Template) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, t := range ts {
		node := &yaml.Node{Kind: yaml.MappingNode}
		addIntField(node, "id", t.ID)
		addStringField(node, "name", t.Name)
		addMultilineStringField(node, "content", t.Content)
		seq.Content = append(seq.Content, node)
	}
	return seq
}

// Helper functions for building yaml.Node

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str"},
	)
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", value), Tag: "!!int"},
	)
}

func addMultilineStringField(node *yaml.Node, key, value string) {
	// Use literal block scalar style for multi-line strings
	style := yaml.LiteralStyle
	if !strings.Contains(value, "\n") {
		style = 0
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: style, Tag: "!!str"},
	)
}
