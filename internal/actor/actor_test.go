package actor

import (
	"testing"

	"dungeon-crawler/internal/gamemap"
)

func TestTakeDamageClamps(t *testing.T) {
	for before := 0; before <= 12; before++ {
		for dmg := -2; dmg <= 15; dmg++ {
			h := Health{Current: before, Max: 12}
			h.TakeDamage(dmg)
			want := before - max(dmg, 0)
			if want < 0 {
				want = 0
			}
			if h.Current != want {
				t.Fatalf("before=%d dmg=%d: after=%d; want %d", before, dmg, h.Current, want)
			}
			if h.Current < 0 || h.Current > before {
				t.Fatalf("before=%d dmg=%d: after=%d out of [0,%d]", before, dmg, h.Current, before)
			}
		}
	}
}

func TestTakeDamageDeathAndFlag(t *testing.T) {
	h := NewHealth(30)
	for i := 0; i < 2; i++ {
		if h.TakeDamage(10) {
			t.Fatalf("hit %d should not kill", i+1)
		}
		if !h.RecentlyDamaged {
			t.Fatalf("hit %d should set RecentlyDamaged", i+1)
		}
	}
	if !h.TakeDamage(10) {
		t.Fatal("third hit of 10 on 30 HP should kill")
	}
	if h.Current != 0 || !h.Dead() {
		t.Fatalf("current = %d; want 0", h.Current)
	}
}

func TestTakeZeroDamageLeavesFlag(t *testing.T) {
	h := NewHealth(5)
	h.TakeDamage(0)
	if h.RecentlyDamaged {
		t.Fatal("zero damage should not flag a hit")
	}
}

func TestNewHealthFloorsMax(t *testing.T) {
	h := NewHealth(0)
	if h.Max != 1 || h.Current != 1 {
		t.Fatalf("NewHealth(0) = %+v; want 1/1", h)
	}
}

func TestReset(t *testing.T) {
	h := NewHealth(20)
	h.TakeDamage(7)
	h.Reset()
	if h.Current != 20 || h.RecentlyDamaged {
		t.Fatalf("after Reset: %+v", h)
	}
}

func TestRescale(t *testing.T) {
	cases := []struct {
		name          string
		cur, old, new int
		wantCur       int
	}{
		{"grow keeps ratio", 25, 50, 100, 50},
		{"grow rounds", 1, 3, 10, 3},
		{"grow full stays full", 50, 50, 80, 80},
		{"shrink clamps", 40, 50, 30, 30},
		{"shrink below current untouched", 10, 50, 30, 10},
		{"same max", 17, 50, 50, 17},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Health{Current: tc.cur, Max: tc.old}
			h.Rescale(tc.new)
			if h.Max != tc.new {
				t.Errorf("Max = %d; want %d", h.Max, tc.new)
			}
			if h.Current != tc.wantCur {
				t.Errorf("Current = %d; want %d", h.Current, tc.wantCur)
			}
			if h.Current > h.Max {
				t.Errorf("Current %d exceeds Max %d", h.Current, h.Max)
			}
		})
	}
}

func TestRegistrySpawnOrder(t *testing.T) {
	r := NewRegistry()
	p := r.Spawn(KindPlayer, gamemap.Coord{X: 1, Y: 1}, 50, 10)
	a := r.Spawn(KindEnemy, gamemap.Coord{X: 5, Y: 1}, 30, 5)
	b := r.Spawn(KindEnemy, gamemap.Coord{X: 2, Y: 4}, 30, 5)
	c := r.Spawn(KindEnemy, gamemap.Coord{X: 3, Y: 3}, 30, 5)

	if p.ID == NilID || r.Player() != p {
		t.Fatal("player should be registered")
	}
	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("IDs should grow with spawn order: %d %d %d", a.ID, b.ID, c.ID)
	}

	r.Remove(b.ID)
	enemies := r.Enemies()
	if len(enemies) != 2 || enemies[0] != a || enemies[1] != c {
		t.Fatalf("enemies after removal = %v", enemies)
	}
	if r.Alive(b.ID) || r.Get(b.ID) != nil {
		t.Fatal("removed enemy should be gone")
	}
	if r.EnemyCount() != 2 {
		t.Fatalf("EnemyCount = %d", r.EnemyCount())
	}
}

func TestRegistryEnemiesIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Spawn(KindEnemy, gamemap.Coord{}, 1, 1)
	r.Spawn(KindEnemy, gamemap.Coord{X: 1}, 1, 1)
	for _, e := range r.Enemies() {
		r.Remove(e.ID)
	}
	if r.EnemyCount() != 0 {
		t.Fatalf("EnemyCount = %d; want 0", r.EnemyCount())
	}
}

func TestRegistryRemovePlayer(t *testing.T) {
	r := NewRegistry()
	p := r.Spawn(KindPlayer, gamemap.Coord{}, 10, 1)
	r.Remove(p.ID)
	if r.Player() != nil {
		t.Fatal("Player should be nil after removal")
	}
	r.Remove(p.ID) // unknown id is a no-op
}

func TestRegistrySecondPlayerReplacesFirst(t *testing.T) {
	r := NewRegistry()
	first := r.Spawn(KindPlayer, gamemap.Coord{}, 10, 1)
	second := r.Spawn(KindPlayer, gamemap.Coord{X: 2}, 10, 1)
	if r.Player() != second || r.Alive(first.ID) {
		t.Fatal("second player should replace the first")
	}
}
