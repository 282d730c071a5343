package actor

import "dungeon-crawler/internal/gamemap"

// Registry owns the live actors of one level: the player and the enemies
// in spawn order. It is the only place actors are looked up; nothing scans
// the map to rediscover them.
type Registry struct {
	nextID  ID
	actors  map[ID]*Actor
	enemies []ID // spawn order
	player  ID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		actors: make(map[ID]*Actor),
	}
}

// Spawn mints a new actor at pos with full health. Spawning a second
// player replaces the first.
func (r *Registry) Spawn(kind Kind, pos gamemap.Coord, maxHP, damage int) *Actor {
	a := &Actor{
		ID:     r.nextID,
		Kind:   kind,
		Pos:    pos,
		Spawn:  pos,
		Health: NewHealth(maxHP),
		Damage: damage,
	}
	r.nextID++
	r.actors[a.ID] = a
	if kind == KindPlayer {
		if r.player != NilID {
			delete(r.actors, r.player)
		}
		r.player = a.ID
	} else {
		r.enemies = append(r.enemies, a.ID)
	}
	return a
}

// Remove drops an actor from the registry. Unknown IDs are ignored.
func (r *Registry) Remove(id ID) {
	a, ok := r.actors[id]
	if !ok {
		return
	}
	delete(r.actors, id)
	if a.Kind == KindPlayer {
		r.player = NilID
		return
	}
	for i, eid := range r.enemies {
		if eid == id {
			r.enemies = append(r.enemies[:i], r.enemies[i+1:]...)
			break
		}
	}
}

// Get returns the actor with id, or nil.
func (r *Registry) Get(id ID) *Actor {
	return r.actors[id]
}

// Alive reports whether id names a live actor.
func (r *Registry) Alive(id ID) bool {
	_, ok := r.actors[id]
	return ok
}

// Player returns the player actor, or nil before one is spawned.
func (r *Registry) Player() *Actor {
	return r.actors[r.player]
}

// Enemies returns the live enemies in spawn order. The slice is a copy;
// removing enemies while iterating it is safe.
func (r *Registry) Enemies() []*Actor {
	out := make([]*Actor, 0, len(r.enemies))
	for _, id := range r.enemies {
		out = append(out, r.actors[id])
	}
	return out
}

// EnemyCount returns the number of live enemies.
func (r *Registry) EnemyCount() int { return len(r.enemies) }
