package ecs

// RegistryStats is a snapshot of a registry's size.
type RegistryStats struct {
	ArchetypeCount       int
	TotalEntityCount     int
	FreeSlots            int
	RegisteredComponents int
	SingletonCount       int
	ArchetypeBreakdown   []ArchetypeStats
}

// ArchetypeStats describes a single archetype.
type ArchetypeStats struct {
	Index       uint32
	Hash        TypeHash
	Components  []string
	EntityCount int
	Capacity    int
}

// CollectStats gathers statistics about the registry.
func (r *Registry) CollectStats() RegistryStats {
	stats := RegistryStats{
		ArchetypeCount:       len(r.archetypes),
		TotalEntityCount:     r.Len(),
		FreeSlots:            len(r.freeList),
		RegisteredComponents: len(r.components.byType),
		SingletonCount:       r.singletons.Len(),
		ArchetypeBreakdown:   make([]ArchetypeStats, 0, len(r.archetypes)),
	}

	for _, a := range r.archetypes {
		names := make([]string, len(a.columns))
		for i, c := range a.columns {
			names[i] = c.typeInfo().Name()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			Index:       a.index,
			Hash:        a.hash,
			Components:  names,
			EntityCount: a.Len(),
			Capacity:    a.capacity,
		})
	}
	return stats
}
