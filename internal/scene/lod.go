package scene

import "slices"

// LODPivotName is the child that carries the LOD levels of combined meshes.
const LODPivotName = "LodPivot"

// AssignLOD adds renderer to level, growing the level list as needed, and
// recomputes every transition height as (N-i)/(N+1).
func AssignLOD(lods []LODLevel, level int, renderer string) []LODLevel {
	if level < 0 {
		return lods
	}
	for len(lods) <= level {
		lods = append(lods, LODLevel{})
	}
	if !slices.Contains(lods[level].Renderers, renderer) {
		lods[level].Renderers = append(lods[level].Renderers, renderer)
	}
	n := len(lods)
	for i := range lods {
		lods[i].Height = float32(n-i) / float32(n+1)
	}
	return lods
}
