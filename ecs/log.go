package ecs

import "github.com/rs/zerolog"

func componentArray(a *Archetype) *zerolog.Array {
	arr := zerolog.Arr()
	for _, c := range a.columns {
		info := c.typeInfo()
		arr.Dict(zerolog.Dict().
			Str("component_name", info.Name()).
			Uint32("type_hash", uint32(info.Hash)))
	}
	return arr
}

// LogRegistry logs one event summarizing every archetype of r.
func LogRegistry(logger *zerolog.Logger, r *Registry, level zerolog.Level) {
	archetypes := zerolog.Arr()
	for _, a := range r.archetypes {
		archetypes.Dict(zerolog.Dict().
			Uint32("archetype_index", a.index).
			Uint32("archetype_hash", uint32(a.hash)).
			Int("entity_count", a.Len()).
			Int("capacity", a.capacity).
			Array("components", componentArray(a)))
	}
	logger.WithLevel(level).
		Int("total_entities", r.Len()).
		Int("free_slots", len(r.freeList)).
		Int("total_archetypes", len(r.archetypes)).
		Array("archetypes", archetypes).
		Send()
}

// LogEntity logs where id is stored and which components it has.
func LogEntity(logger *zerolog.Logger, r *Registry, id EntityId, level zerolog.Level) error {
	if err := r.CheckEntity(id); err != nil {
		logger.Err(err).Msgf("cannot log entity %s", id)
		return err
	}
	e := r.entities[id.Index()]
	a := r.archetypes[e.ArchetypeIndex]
	logger.WithLevel(level).
		Uint32("entity_index", id.Index()).
		Uint32("entity_version", id.Version()).
		Uint32("archetype_index", e.ArchetypeIndex).
		Uint32("local_row", e.LocalRow).
		Array("components", componentArray(a)).
		Send()
	return nil
}
