// Package manifest loads declarative scene descriptions from YAML.
//
// A manifest describes a node tree with initial visibility and seed
// attributes, so host code can stand up a scene without hand-wiring every
// store:
//
//	scene:
//	  name: hud
//	  class: Frame
//	  attributes:
//	    score: 0
//	  children:
//	    - name: healthbar
//	      visible: false
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/affix/pkg/errors"
	"github.com/go-drift/affix/pkg/scene"
)

// Manifest is the top-level document.
type Manifest struct {
	Scene NodeSpec `yaml:"scene"`
}

// NodeSpec describes one node in the tree.
type NodeSpec struct {
	Name       string         `yaml:"name"`
	Class      string         `yaml:"class,omitempty"`
	Visible    *bool          `yaml:"visible,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
	Children   []NodeSpec     `yaml:"children,omitempty"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses manifest bytes and validates node names.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse scene manifest: %w", err)
	}
	if err := validate(&m.Scene, ""); err != nil {
		return nil, err
	}
	return &m, nil
}

func validate(spec *NodeSpec, parent string) error {
	if spec.Name == "" {
		return errors.New("manifest.Parse", errors.KindManifest, parent,
			"node under %q is missing a name", orRoot(parent))
	}
	seen := make(map[string]bool, len(spec.Children))
	for i := range spec.Children {
		child := &spec.Children[i]
		if seen[child.Name] {
			return errors.New("manifest.Parse", errors.KindManifest, child.Name,
				"duplicate child %q under %q", child.Name, spec.Name)
		}
		if child.Name != "" {
			seen[child.Name] = true
		}
		if err := validate(child, spec.Name); err != nil {
			return err
		}
	}
	return nil
}

func orRoot(name string) string {
	if name == "" {
		return "root"
	}
	return name
}

// Build constructs the node tree, attaching a canonical store to every node
// that declares attributes and seeding the declared values as inline
// entries.
func (m *Manifest) Build() *scene.Node {
	return buildNode(&m.Scene)
}

func buildNode(spec *NodeSpec) *scene.Node {
	class := spec.Class
	if class == "" {
		class = "Frame"
	}
	node := scene.NewNode(spec.Name, class)
	if spec.Visible != nil {
		node.SetVisible(*spec.Visible)
	}
	if len(spec.Attributes) > 0 {
		store := node.AttachStore(scene.NewStore(scene.StoreNameFor(spec.Name)))
		for name, value := range spec.Attributes {
			store.SetAttribute(name, value)
		}
	}
	for i := range spec.Children {
		node.AddChild(buildNode(&spec.Children[i]))
	}
	return node
}
