package recommend

import (
	"sort"

	"github.com/edulab-cloud/mentor/internal/domain"
)

// rank builds the recommendation list, short-circuiting once num results are
// accumulated. Output ids are unique and the sequence is fully determined by
// its inputs.
//
// Passes, in order:
//  1. tag overlap with the user profile (descending, catalog order on ties),
//  2. global popularity ranking,
//  3. catalog fill in stored order.
func rank(userTags []string, materials []domain.Material, popularity []string, num int) []domain.Material {
	recs := make([]domain.Material, 0, num)
	used := make(map[string]struct{}, num)

	take := func(m domain.Material) {
		recs = append(recs, m)
		used[m.ID] = struct{}{}
	}

	if len(userTags) > 0 {
		profile := make(map[string]struct{}, len(userTags))
		for _, t := range userTags {
			profile[t] = struct{}{}
		}

		type scoredMaterial struct {
			overlap  int
			material domain.Material
		}
		scored := make([]scoredMaterial, 0, len(materials))
		for _, m := range materials {
			overlap := 0
			for _, t := range m.Tags {
				if _, ok := profile[t]; ok {
					overlap++
				}
			}
			if overlap > 0 {
				scored = append(scored, scoredMaterial{overlap: overlap, material: m})
			}
		}
		// Stable sort over catalog order keeps earlier materials first on ties.
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].overlap > scored[j].overlap
		})

		for _, s := range scored {
			if len(recs) >= num {
				break
			}
			if _, ok := used[s.material.ID]; ok {
				continue
			}
			take(s.material)
		}
	}

	for _, id := range popularity {
		if len(recs) >= num {
			break
		}
		if _, ok := used[id]; ok {
			continue
		}
		// First catalog match wins; ids unknown to the catalog are skipped.
		for _, m := range materials {
			if m.ID == id {
				take(m)
				break
			}
		}
	}

	for _, m := range materials {
		if len(recs) >= num {
			break
		}
		if _, ok := used[m.ID]; ok {
			continue
		}
		take(m)
	}

	if len(recs) > num {
		recs = recs[:num]
	}
	return recs
}
