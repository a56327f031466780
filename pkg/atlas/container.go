package atlas

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/pkg/material"
)

// Container is the outcome of packing every non-tileable texture of one
// shader into a single atlas: the material that samples the atlas and the
// rectangle each source (texture, tint) pair ended up in.
type Container struct {
	Shader   string             `yaml:"shader"`
	Material *material.Material `yaml:"material"`
	Mappings map[string]Mapping `yaml:"mappings"`
}

// Validate checks every mapping of the container.
func (c *Container) Validate() error {
	keys := make([]string, 0, len(c.Mappings))
	for k := range c.Mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.Mappings[k].Validate(); err != nil {
			return fmt.Errorf("atlas %s, entry %s: %w", c.Shader, k, err)
		}
	}
	return nil
}

// Combined is one output material group: the material emitted meshes are
// rendered with and every source material folded into it.
type Combined struct {
	Material *material.Material
	Sources  []*material.Material
	// Atlas names the shader of the container the material came from, empty
	// for materials that were not atlased.
	Atlas string
}

// Resolve folds materials (in first-use order) into output groups. For every
// shader with a container, non-tileable materials collapse into the
// container's material and their mappings are copied into the returned table.
// Tileable materials, materials of shaders without a container and shaders
// whose container has no material keep a group of their own.
func Resolve(materials []*material.Material, containers map[string]*Container, colorMap string) ([]*Combined, Table) {
	table := Table{}
	var out []*Combined
	atlased := make(map[string]*Combined)

	for _, mat := range materials {
		c, ok := containers[mat.ShaderIdentifier()]
		if !ok || c == nil || c.Material == nil || mat.IsTileable() {
			out = append(out, &Combined{Material: mat, Sources: []*material.Material{mat}})
			continue
		}

		group, seen := atlased[c.Shader]
		if !seen {
			group = &Combined{Material: c.Material, Atlas: c.Shader}
			atlased[c.Shader] = group
			out = append(out, group)
		}
		if !containsMaterial(group.Sources, mat) {
			group.Sources = append(group.Sources, mat)
		}

		if mat.Tint == nil {
			continue
		}
		if tex, ok := mat.Texture(colorMap); ok {
			key := Key(tex, *mat.Tint)
			if m, ok := c.Mappings[key]; ok {
				table[key] = m
			}
		}
	}
	return out, table
}

func containsMaterial(list []*material.Material, m *material.Material) bool {
	for _, x := range list {
		if x == m || x.Identifier() == m.Identifier() {
			return true
		}
	}
	return false
}

// LoadContainers reads a YAML list of containers keyed by shader.
func LoadContainers(path string) (map[string]*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []*Container
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing atlas file %s: %w", path, err)
	}
	out := make(map[string]*Container, len(list))
	for _, c := range list {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		out[c.Shader] = c
	}
	return out, nil
}
